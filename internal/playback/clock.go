package playback

// Clock is the playback clock collaborator. The engine never touches audio
// bytes; it only reads a scalar position and issues transport commands.
// Implementations report Ready() == false until their audio source is
// loaded, during which every engine action is a silent no-op.
type Clock interface {
	CurrentTime() float64
	Seek(t float64)
	Play()
	Pause()
	SetRate(r float64)
	Ready() bool
}
