package contract

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed sonic_securum.abi.json
var abiJSON []byte

type Argument struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	InternalType string `json:"internalType"`
}

type Method struct {
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Inputs          []Argument `json:"inputs"`
	Outputs         []Argument `json:"outputs"`
	StateMutability string     `json:"stateMutability"`
}

func (m Method) Payable() bool { return m.StateMutability == "payable" }

func (m Method) View() bool {
	return m.StateMutability == "view" || m.StateMutability == "pure"
}

// Signature renders the method as name(type,type).
func (m Method) Signature() string {
	s := m.Name + "("
	for i, in := range m.Inputs {
		if i > 0 {
			s += ","
		}
		s += in.Type
	}
	return s + ")"
}

// ABI is a parsed contract interface description.
type ABI struct {
	methods map[string]Method
	order   []string
}

func ParseABI(data []byte) (*ABI, error) {
	var entries []Method
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse abi: %w", err)
	}
	a := &ABI{methods: make(map[string]Method, len(entries))}
	for _, m := range entries {
		if m.Type != "function" {
			continue
		}
		if _, dup := a.methods[m.Name]; dup {
			return nil, fmt.Errorf("parse abi: duplicate method %s", m.Name)
		}
		a.methods[m.Name] = m
		a.order = append(a.order, m.Name)
	}
	return a, nil
}

var (
	defaultABI     *ABI
	defaultABIOnce sync.Once
)

// DefaultABI is the embedded interface description of the royalty contract.
func DefaultABI() *ABI {
	defaultABIOnce.Do(func() {
		a, err := ParseABI(abiJSON)
		if err != nil {
			panic(err)
		}
		defaultABI = a
	})
	return defaultABI
}

func (a *ABI) Lookup(name string) (Method, error) {
	m, ok := a.methods[name]
	if !ok {
		return Method{}, fmt.Errorf("%w: %s", ErrUnknownMethod, name)
	}
	return m, nil
}

// Methods lists methods in declaration order.
func (a *ABI) Methods() []Method {
	out := make([]Method, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, a.methods[name])
	}
	return out
}

// CheckCall validates argument count and value against the declaration.
func (a *ABI) CheckCall(name string, args int, withValue bool) (Method, error) {
	m, err := a.Lookup(name)
	if err != nil {
		return m, err
	}
	if args != len(m.Inputs) {
		return m, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrInvalidArgument, m.Name, len(m.Inputs), args)
	}
	if withValue && !m.Payable() {
		return m, fmt.Errorf("%w: %s", ErrNotPayable, m.Name)
	}
	return m, nil
}
