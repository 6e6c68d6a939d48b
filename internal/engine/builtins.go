// Released under an MIT license. See LICENSE.

package engine

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/michaelmacinnis/adapted"
	"github.com/michaelmacinnis/cellscheme/internal/env"
	"github.com/michaelmacinnis/cellscheme/internal/fault"
	"github.com/michaelmacinnis/cellscheme/internal/heap"
	"github.com/michaelmacinnis/cellscheme/internal/printer"
	"github.com/michaelmacinnis/cellscheme/internal/reader"
	"github.com/michaelmacinnis/cellscheme/internal/system/process"
)

func primitives() map[string]interface{} {
	return map[string]interface{}{
		// Special forms.
		"begin":  SpecialForm(begin),
		"cond":   SpecialForm(cond),
		"define": SpecialForm(define),
		"if":     SpecialForm(ifForm),
		"lambda": SpecialForm(lambda),
		"macro":  SpecialForm(macro),
		"quote":  SpecialForm(quote),
		"set!":   SpecialForm(set),

		// Pairs and lists.
		"assq":     Expr2(assq),
		"car":      Expr1(car),
		"cdr":      Expr1(cdr),
		"cons":     Expr2(cons),
		"length":   Expr1(length),
		"list":     ListExpr(list),
		"map":      ListExpr(mapList),
		"set-car!": Expr2(setCar),
		"set-cdr!": Expr2(setCdr),

		// Predicates.
		"atom?":       Expr1(isAtom),
		"eof-object?": Expr1(isEOF),
		"eq?":         Expr2(eq),
		"integer?":    Expr1(isInteger),
		"null?":       Expr1(isNull),
		"pair?":       Expr1(isPair),
		"procedure?":  Expr1(isProcedure),
		"string?":     Expr1(isString),
		"symbol?":     Expr1(isSymbol),

		// Arithmetic.
		"*": ListExpr(mul),
		"+": ListExpr(add),
		"-": ListExpr(sub),
		"/": ListExpr(div),
		"<": ListExpr(lt),
		"=": ListExpr(numEq),
		">": ListExpr(gt),

		// Symbols.
		"intern":         Expr1(intern),
		"string->symbol": Expr1(intern),
		"symbol->string": Expr1(symbolToString),

		// Evaluation.
		"apply":            Expr2(apply),
		"dump-environment": SpecialForm(dumpEnvironment),
		"eval":             Expr1(eval),
		"exit":             ListExpr(exit),
		"load":             Expr1(load),

		// Input and output.
		"close-port":      Expr1(closePort),
		"display":         Expr1(display),
		"newline":         Expr0(newline),
		"open-input-file": Expr1(openInputFile),
		"read":            ListExpr(read),
		"write":           Expr1(write),

		// Memory and time.
		"gc":       Expr0(gc),
		"gc-stats": Expr0(gcStats),
		"runtime":  Expr0(runtime),
	}
}

// Pairs and lists.

// assq returns the cdr of the first pair in alist whose car is key,
// or () if there is none.
func assq(e *T, key, alist heap.Value) heap.Value {
	for ; alist.IsPair(); alist = alist.Cdr() {
		if p := alist.Car(); p.IsPair() && p.Car() == key {
			return p.Cdr()
		}
	}

	return heap.Null
}

func car(e *T, p heap.Value) heap.Value {
	return p.Car()
}

func cdr(e *T, p heap.Value) heap.Value {
	return p.Cdr()
}

func cons(e *T, a, b heap.Value) heap.Value {
	return e.heap.Cons(a, b)
}

func length(e *T, l heap.Value) heap.Value {
	if !l.IsList() {
		fault.Raise(fault.Type, "length: expected list, got %s", printer.String(l))
	}

	return e.heap.Integer(l.Length())
}

func list(e *T, args heap.Value) heap.Value {
	h := e.heap

	head, tail := heap.Null, heap.Null
	defer h.Release(h.Push(&head, &tail))

	for ; args.IsPair(); args = args.Cdr() {
		p := h.Cons(args.Car(), heap.Null)
		if head == heap.Null {
			head = p
		} else {
			tail.SetCdr(p)
		}

		tail = p
	}

	return head
}

// mapList applies a procedure to the elements of one or more lists in
// turn, stopping at the end of the shortest.
func mapList(e *T, args heap.Value) heap.Value {
	h := e.heap

	v, _ := variadic(fault.Arity, "map", args, 2, 2)
	proc := v[0]

	// The cursors are suffixes of lists reachable from args.
	var cursors []heap.Value
	for lists := args.Cdr(); lists.IsPair(); lists = lists.Cdr() {
		cursors = append(cursors, lists.Car())
	}

	head, tail, call, r := heap.Null, heap.Null, heap.Null, heap.Null
	defer h.Release(h.Push(&head, &tail, &call, &r))

	for {
		call = heap.Null

		for i := len(cursors) - 1; i >= 0; i-- {
			if !cursors[i].IsPair() {
				return head
			}

			call = h.Cons(cursors[i].Car(), call)
		}

		for i := range cursors {
			cursors[i] = cursors[i].Cdr()
		}

		r = e.call(proc, call)

		p := h.Cons(r, heap.Null)
		if head == heap.Null {
			head = p
		} else {
			tail.SetCdr(p)
		}

		tail = p
	}
}

func setCar(e *T, p, v heap.Value) heap.Value {
	p.SetCar(v)

	return p
}

func setCdr(e *T, p, v heap.Value) heap.Value {
	p.SetCdr(v)

	return p
}

// Predicates.

func eq(e *T, a, b heap.Value) heap.Value {
	return heap.Bool(a == b)
}

func isAtom(e *T, v heap.Value) heap.Value {
	return heap.Bool(!v.IsPair())
}

func isEOF(e *T, v heap.Value) heap.Value {
	return heap.Bool(v == heap.EOF)
}

func isInteger(e *T, v heap.Value) heap.Value {
	return heap.Bool(v.IsInteger())
}

func isNull(e *T, v heap.Value) heap.Value {
	return heap.Bool(v == heap.Null)
}

func isPair(e *T, v heap.Value) heap.Value {
	return heap.Bool(v.IsPair())
}

func isProcedure(e *T, v heap.Value) heap.Value {
	return heap.Bool(v.IsProcedure())
}

func isString(e *T, v heap.Value) heap.Value {
	return heap.Bool(v.IsString())
}

func isSymbol(e *T, v heap.Value) heap.Value {
	return heap.Bool(v.IsSymbol())
}

// Arithmetic.

func add(e *T, args heap.Value) heap.Value {
	sum := 0
	for _, n := range integers("+", args) {
		sum += n
	}

	return e.heap.Integer(sum)
}

func div(e *T, args heap.Value) heap.Value {
	variadic(fault.Arity, "/", args, 1, 1)

	ns := integers("/", args)
	if len(ns) == 1 {
		ns = append([]int{1}, ns...)
	}

	quotient := ns[0]

	for _, n := range ns[1:] {
		if n == 0 {
			fault.Raise(fault.Eval, "/: division by zero")
		}

		quotient /= n
	}

	return e.heap.Integer(quotient)
}

func mul(e *T, args heap.Value) heap.Value {
	product := 1
	for _, n := range integers("*", args) {
		product *= n
	}

	return e.heap.Integer(product)
}

func sub(e *T, args heap.Value) heap.Value {
	variadic(fault.Arity, "-", args, 1, 1)

	ns := integers("-", args)
	if len(ns) == 1 {
		return e.heap.Integer(-ns[0])
	}

	difference := ns[0]
	for _, n := range ns[1:] {
		difference -= n
	}

	return e.heap.Integer(difference)
}

func compare(name string, args heap.Value, ok func(a, b int) bool) heap.Value {
	variadic(fault.Arity, name, args, 1, 1)

	ns := integers(name, args)
	for i := 1; i < len(ns); i++ {
		if !ok(ns[i-1], ns[i]) {
			return heap.False
		}
	}

	return heap.True
}

func gt(e *T, args heap.Value) heap.Value {
	return compare(">", args, func(a, b int) bool { return a > b })
}

func lt(e *T, args heap.Value) heap.Value {
	return compare("<", args, func(a, b int) bool { return a < b })
}

func numEq(e *T, args heap.Value) heap.Value {
	return compare("=", args, func(a, b int) bool { return a == b })
}

// Symbols.

func intern(e *T, v heap.Value) heap.Value {
	switch {
	case v.IsSymbol():
		return v
	case v.IsString():
		return e.heap.Intern(v.Text())
	}

	fault.Raise(fault.Type, "intern: expected string, got %s", describe(v))

	return heap.Undefined
}

func symbolToString(e *T, v heap.Value) heap.Value {
	return e.heap.String(v.Name())
}

// Evaluation.

func apply(e *T, proc, args heap.Value) heap.Value {
	if !args.IsList() {
		fault.Raise(fault.Type, "apply: expected list, got %s", printer.String(args))
	}

	return e.call(proc, args)
}

// dumpEnvironment prints the bindings of every enclosing frame.
func dumpEnvironment(e *T, args heap.Value, s *State) heap.Value {
	fixed(fault.Syntax, "dump-environment", args, 0, 0)

	env.Dump(e.output, s.Env, printer.String)

	return heap.Undefined
}

func eval(e *T, x heap.Value) heap.Value {
	return e.Eval(x, heap.Null)
}

func exit(e *T, args heap.Value) heap.Value {
	code := 0

	if v := fixed(fault.Arity, "exit", args, 0, 1); len(v) == 1 {
		code = integers("exit", args)[0]
	}

	logger.Printf("exit %d", code)

	e.exit(code)

	return heap.Undefined
}

// load evaluates the files matching name at the top level. It returns ()
// if nothing matches.
func load(e *T, name heap.Value) heap.Value {
	var pattern string

	switch {
	case name.IsString():
		pattern = name.Text()
	case name.IsSymbol():
		pattern = name.Name()
	default:
		fault.Raise(fault.Type, "load: expected string, got %s", describe(name))
	}

	paths := expand(pattern)
	if len(paths) == 0 {
		return heap.Null
	}

	for _, path := range paths {
		e.load(path)
	}

	return heap.True
}

// expand returns the existing files named by pattern. Wildcards are
// allowed in the last element of the path.
func expand(pattern string) []string {
	dir, file := filepath.Split(pattern)

	if !strings.ContainsAny(file, `*?[\`) {
		if _, err := os.Stat(pattern); err != nil {
			return nil
		}

		return []string{pattern}
	}

	entries, err := os.ReadDir(filepath.Clean(dir + "."))
	if err != nil {
		return nil
	}

	var paths []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ok, err := adapted.Match(file, entry.Name())
		if err != nil {
			fault.Raise(fault.Eval, "load: %v", err)
		}

		if ok {
			paths = append(paths, dir+entry.Name())
		}
	}

	return paths
}

// Input and output.

func closePort(e *T, port heap.Value) heap.Value {
	if f := port.File(); f != nil {
		delete(e.inputs, f)
	}

	if err := port.ClosePort(); err != nil {
		fault.Raise(fault.Eval, "close-port: %v", err)
	}

	return heap.True
}

func display(e *T, v heap.Value) heap.Value {
	return e.print(printer.Display, v)
}

func newline(e *T) heap.Value {
	if _, err := io.WriteString(e.output, "\n"); err != nil {
		fault.Raise(fault.Eval, "newline: %v", err)
	}

	return heap.Undefined
}

func openInputFile(e *T, name heap.Value) heap.Value {
	if !name.IsString() {
		fault.Raise(fault.Type, "open-input-file: expected string, got %s", describe(name))
	}

	path := name.Text()

	f, err := os.Open(path)
	if err != nil {
		fault.Raise(fault.Eval, "open-input-file: %v", err)
	}

	port := e.heap.Port(path, f)

	e.inputs[f] = &input{
		r:  bufio.NewReader(f),
		rd: reader.New(e.heap, path),
	}

	return port
}

func read(e *T, args heap.Value) heap.Value {
	v := fixed(fault.Arity, "read", args, 0, 1)
	if len(v) == 0 {
		return e.stdin.next()
	}

	f := v[0].File()
	if f == nil {
		fault.Raise(fault.Eval, "read: port is closed")
	}

	in, ok := e.inputs[f]
	if !ok {
		fault.Raise(fault.Eval, "read: not an input port")
	}

	return in.next()
}

func write(e *T, v heap.Value) heap.Value {
	return e.print(printer.Write, v)
}

func (e *engine) print(fn func(io.Writer, heap.Value) error, v heap.Value) heap.Value {
	if err := fn(e.output, v); err != nil {
		fault.Raise(fault.Eval, "%v", err)
	}

	return heap.Undefined
}

// Memory and time.

func gc(e *T) heap.Value {
	return e.heap.Integer(e.heap.Collect())
}

// gcStats returns an association list describing the heap.
func gcStats(e *T) heap.Value {
	h := e.heap
	st := h.Stats()

	l, k, n := heap.Null, heap.Null, heap.Null
	defer h.Release(h.Push(&l, &k, &n))

	fields := []struct {
		name  string
		value int
	}{
		{"pages", st.Pages},
		{"cells", st.Cells},
		{"free", st.Free},
		{"collections", st.Collections},
		{"reclaimed", st.Reclaimed},
	}

	for i := len(fields) - 1; i >= 0; i-- {
		k = h.Intern(fields[i].name)
		n = h.Integer(fields[i].value)
		l = h.Cons(h.Cons(k, n), l)
	}

	return l
}

// runtime returns the CPU time used by the process in microseconds.
func runtime(e *T) heap.Value {
	d, err := process.CPUTime()
	if err != nil {
		fault.Raise(fault.Eval, "runtime: %v", err)
	}

	return e.heap.Integer(int(d.Microseconds()))
}
