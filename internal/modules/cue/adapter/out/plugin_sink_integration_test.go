package out_test

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	cueout "chalkup/internal/modules/cue/adapter/out"
	"chalkup/internal/modules/cue/domain"
)

func TestPluginSinkIntegrationCueBell(t *testing.T) {
	binPath := buildCueBellPlugin(t)
	sink := cueout.NewPluginSink(binPath, nil)
	defer sink.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sink.Play(ctx, domain.Tone{FrequencyHz: 440, Duration: time.Millisecond}); err == nil {
		t.Fatalf("play before unlock should fail")
	}
	if err := sink.Unlock(ctx); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if desc := sink.Describe(); desc.Name != "cuebell" || !desc.Audio {
		t.Fatalf("unexpected plugin description: %+v", desc)
	}
	if err := sink.Play(ctx, domain.Tone{FrequencyHz: 880, Duration: 5 * time.Millisecond}); err != nil {
		t.Fatalf("play: %v", err)
	}
	if err := sink.Vibrate(ctx, []time.Duration{10 * time.Millisecond}); err != nil {
		t.Fatalf("vibrate: %v", err)
	}
	if err := sink.Unlock(ctx); err != nil {
		t.Fatalf("second unlock should reuse the running plugin: %v", err)
	}
}

func buildCueBellPlugin(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "cuebell")
	cmd := exec.Command("go", "build", "-o", binPath, "./plugins/cuebell")
	cmd.Dir = repositoryRoot(t)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build cuebell plugin: %v\n%s", err, string(out))
	}
	return binPath
}

func repositoryRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller failed")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "../../../../../"))
}
