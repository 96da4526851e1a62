package calc

// Host syntax tree produced by the parser. It is wider than what may be evaluated;
// restrict decides what survives.

type node interface {
	pos() int
}

type numberNode struct {
	at    int
	value float64
}

type stringNode struct {
	at   int
	text string
}

type nameNode struct {
	at   int
	name string
}

type unaryNode struct {
	at      int
	op      tokenKind
	operand node
}

type binaryNode struct {
	at          int
	op          tokenKind
	left, right node
}

type callNode struct {
	at   int
	fn   node
	args []node
}

type memberNode struct {
	at     int
	target node
	name   string
}

type indexNode struct {
	at            int
	target, index node
}

type assignNode struct {
	at            int
	target, value node
}

type listNode struct {
	at    int
	items []node
}

type lambdaNode struct {
	at     int
	params []string
	body   node
}

func (n *numberNode) pos() int { return n.at }
func (n *stringNode) pos() int { return n.at }
func (n *nameNode) pos() int   { return n.at }
func (n *unaryNode) pos() int  { return n.at }
func (n *binaryNode) pos() int { return n.at }
func (n *callNode) pos() int   { return n.at }
func (n *memberNode) pos() int { return n.at }
func (n *indexNode) pos() int  { return n.at }
func (n *assignNode) pos() int { return n.at }
func (n *listNode) pos() int   { return n.at }
func (n *lambdaNode) pos() int { return n.at }
