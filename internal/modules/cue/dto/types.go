package dto

type EmitInput struct {
	Type string
	Wait bool
}

type StatusOutput struct {
	Unlocked       bool
	AudioAvailable bool
}
