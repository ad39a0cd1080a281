package connection

// event is anything the run goroutine reacts to. Transport events carry the
// generation of the transport that produced them so late events from a
// replaced socket are ignored.
type event interface{}

type dialResult struct {
	gen       uint64
	transport Transport
	err       error
}

type frameReceived struct {
	gen  uint64
	data []byte
}

type transportClosed struct {
	gen uint64
	err error
}

type reconnectDue struct {
	seq uint64
}

type sendCmd struct {
	prompt string
	mode   string
	reply  chan error
}

type resetCmd struct {
	reply chan error
}

type disposeCmd struct{}
