package minipy

import "fmt"

// SymbolID is a handle into a Symbols arena. The zero value means "not bound".
type SymbolID int

const NoSymbol SymbolID = 0

// SymbolKind says what kind of declaration introduced a symbol.
type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolFunction
	SymbolParameter
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "variable"
	case SymbolFunction:
		return "function"
	case SymbolParameter:
		return "parameter"
	default:
		return "unknown"
	}
}

// Symbol is the resolved binding of an identifier. A declaration and every
// name that resolves to it share one Symbol through its SymbolID.
type Symbol struct {
	ID    SymbolID
	Name  string
	Type  *Datatype // shared with the declaring node
	Kind  SymbolKind
	Depth int // number of open scopes when declared
}

// Symbols is the arena owning every Symbol created during name resolution.
// It outlives the scope stack so later passes can follow SymbolIDs.
type Symbols struct {
	symbols []*Symbol
}

func NewSymbols() *Symbols {
	return &Symbols{}
}

// Declare adds a symbol to the arena and returns its handle.
func (s *Symbols) Declare(name string, typ *Datatype, kind SymbolKind, depth int) SymbolID {
	id := SymbolID(len(s.symbols) + 1)
	s.symbols = append(s.symbols, &Symbol{
		ID:    id,
		Name:  name,
		Type:  typ,
		Kind:  kind,
		Depth: depth,
	})
	return id
}

// Get returns the symbol for id, or nil if id is NoSymbol or unknown.
func (s *Symbols) Get(id SymbolID) *Symbol {
	if s == nil || id <= NoSymbol || int(id) > len(s.symbols) {
		return nil
	}
	return s.symbols[id-1]
}

func (s *Symbols) Len() int {
	return len(s.symbols)
}

// All returns the symbols in declaration order.
func (s *Symbols) All() []*Symbol {
	return s.symbols
}

type scope map[string]SymbolID

// SymbolTable is a stack of lexical scopes, innermost last.
type SymbolTable struct {
	scopes []scope
}

// NewSymbolTable returns a table with the global scope already open.
func NewSymbolTable() *SymbolTable {
	st := &SymbolTable{}
	st.EnterScope()
	return st
}

func (st *SymbolTable) EnterScope() {
	st.scopes = append(st.scopes, scope{})
}

// ExitScope pops the innermost scope.
func (st *SymbolTable) ExitScope() error {
	if len(st.scopes) == 0 {
		return fmt.Errorf("error: cannot exit scope: %w", ErrNoScope)
	}
	st.scopes = st.scopes[:len(st.scopes)-1]
	return nil
}

// Depth returns the number of open scopes.
func (st *SymbolTable) Depth() int {
	return len(st.scopes)
}

// Bind inserts name into the innermost scope. Shadowing a name from an outer
// scope is allowed; redeclaring it in the same scope is not.
func (st *SymbolTable) Bind(name string, id SymbolID) error {
	if len(st.scopes) == 0 {
		return fmt.Errorf("error: cannot bind '%s': %w", name, ErrNoScope)
	}
	current := st.scopes[len(st.scopes)-1]
	if _, exists := current[name]; exists {
		return fmt.Errorf("error: '%s' already declared in this scope: %w", name, ErrDuplicateBinding)
	}
	current[name] = id
	return nil
}

// Lookup searches from the innermost scope outwards.
func (st *SymbolTable) Lookup(name string) (SymbolID, bool) {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if id, ok := st.scopes[i][name]; ok {
			return id, true
		}
	}
	return NoSymbol, false
}

// CurrentScopeLookup checks only the innermost scope.
func (st *SymbolTable) CurrentScopeLookup(name string) (SymbolID, bool) {
	if len(st.scopes) == 0 {
		return NoSymbol, false
	}
	id, ok := st.scopes[len(st.scopes)-1][name]
	return id, ok
}

// withScope runs fn inside a fresh scope. The scope is closed even when fn
// fails; bindings already made are not rolled back.
func (st *SymbolTable) withScope(fn func() error) error {
	st.EnterScope()
	err := fn()
	if exitErr := st.ExitScope(); err == nil {
		err = exitErr
	}
	return err
}
