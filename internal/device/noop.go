package device

// NoopLink stands in for a panel that is not attached. Every command is
// accepted and discarded.
type NoopLink struct {
	name string
}

func NewNoopLink(path string) *NoopLink {
	return &NoopLink{name: "noop:" + path}
}

func (n *NoopLink) Name() string { return n.name }

func (*NoopLink) Send(Command, []byte) error { return nil }

func (*NoopLink) ReadFrame() ([]byte, error) { return []byte{}, nil }

func (*NoopLink) Firmware() (FirmwareVersion, bool) { return FirmwareVersion{}, false }

func (*NoopLink) Close() error { return nil }
