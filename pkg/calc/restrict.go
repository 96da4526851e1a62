package calc

var unaryOps = map[tokenKind]UnaryOp{
	tokMinus: Negate,
	tokPlus:  Identity,
}

var binaryOps = map[tokenKind]BinaryOp{
	tokPlus:    Add,
	tokMinus:   Subtract,
	tokStar:    Multiply,
	tokSlash:   Divide,
	tokPercent: Modulo,
	tokCaret:   Power,
}

// restrict converts a host tree into an evaluable Expr. The whole tree is checked
// before anything is evaluated; the first disallowed node (in pre-order) is reported.
func restrict(n node) (Expr, error) {
	switch n := n.(type) {
	case *numberNode:
		return Literal(n.value), nil
	case *unaryNode:
		op, ok := unaryOps[n.op]
		if !ok {
			return nil, disallowedErr(n.at, "operator %s is not allowed", n.op)
		}
		operand, err := restrict(n.operand)
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, Operand: operand}, nil
	case *binaryNode:
		op, ok := binaryOps[n.op]
		if !ok {
			return nil, disallowedErr(n.at, "operator %s is not allowed", n.op)
		}
		left, err := restrict(n.left)
		if err != nil {
			return nil, err
		}
		right, err := restrict(n.right)
		if err != nil {
			return nil, err
		}
		return &Binary{Op: op, Left: left, Right: right}, nil
	case *nameNode:
		return nil, disallowedErr(n.at, "name %q is not allowed", n.name)
	case *stringNode:
		return nil, disallowedErr(n.at, "string literals are not allowed")
	case *callNode:
		return nil, disallowedErr(n.at, "function calls are not allowed")
	case *memberNode:
		return nil, disallowedErr(n.at, "member access is not allowed")
	case *indexNode:
		return nil, disallowedErr(n.at, "indexing is not allowed")
	case *assignNode:
		return nil, disallowedErr(n.at, "assignment is not allowed")
	case *listNode:
		return nil, disallowedErr(n.at, "list literals are not allowed")
	case *lambdaNode:
		return nil, disallowedErr(n.at, "lambda expressions are not allowed")
	default:
		return nil, disallowedErr(n.pos(), "unsupported syntax %T", n)
	}
}
