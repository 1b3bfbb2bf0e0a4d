package products

type ProductKey struct{}

// Product stores the ProductValue of the running command in its context.
var Product = ProductKey{}

// ProductValue is the system a command talks to (on-prem).
type ProductValue string

func (p ProductValue) String() string {
	return string(p)
}
