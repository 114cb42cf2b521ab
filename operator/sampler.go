package operator

// KeyReader returns one key press per call, blocking until one arrives.
type KeyReader interface {
	ReadKey() (byte, error)
}

// Sampler copies key presses into a KeySlot as fast as they arrive,
// independently of the encoder's tick.
type Sampler struct {
	Keys KeyReader
	Slot *KeySlot
}

// Run stores keys until the reader fails and returns that error.
func (s *Sampler) Run() error {
	for {
		key, err := s.Keys.ReadKey()
		if err != nil {
			return err
		}
		s.Slot.Store(key)
	}
}
