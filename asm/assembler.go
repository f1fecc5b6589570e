package asm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/isa"
	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/machine"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":        "0",
	"DATA_BASE":     fmt.Sprintf("%d", machine.DATA_BASE),
	"MEMORY_SIZE":   fmt.Sprintf("%d", machine.MEMORY_SIZE),
	"PROGRAM_LIMIT": fmt.Sprintf("%d", machine.PROGRAM_LIMIT),
}

var (
	labelRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	parenRe = regexp.MustCompile(`\$\([^\$]*\)`)
)

// Assembler is a two pass assembler: the first pass places labels, the
// second encodes instructions.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to instruction addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// source is one line of input text.
type source struct {
	lineNo int
	text   string   // Line without comment.
	labels []string // Leading labels.
	body   []string // Words after the labels.
	dead   error    // Set once the line failed to assemble.
}

// instruction returns true if the line occupies a program word.
func (src *source) instruction() bool {
	return len(src.body) > 0 && src.body[0] != ".equ"
}

func (src *source) syntax(err error) error {
	return ErrSyntax{LineNo: src.lineNo, Line: src.text, Err: err}
}

func stripComment(text string) string {
	if n := strings.IndexAny(text, ";#"); n >= 0 {
		text = text[:n]
	}
	return strings.TrimSpace(text)
}

func splitLabels(text string) (labels, body []string) {
	words := strings.Fields(text)
	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		labels = append(labels, strings.TrimSuffix(words[0], ":"))
		words = words[1:]
	}
	body = words
	return
}

// Parse assembles an input stream. Lines that fail are left out of the
// program, and their errors are returned joined and in Program.Errors.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	var sources []*source

	scanner := bufio.NewScanner(input)
	lineno := 0
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line := stripComment(text)
		labels, body := splitLabels(line)
		sources = append(sources, &source{lineNo: lineno, text: line, labels: labels, body: body})
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// A dropped line moves every label after it, so assembly restarts
	// whenever an instruction is dropped.
	for {
		var restart bool
		prog, restart = asm.assemble(sources)
		if !restart {
			break
		}
	}

	err = errors.Join(prog.Errors...)

	return
}

// reset restores the equates and labels to their initial state.
func (asm *Assembler) reset() {
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	if asm.Label == nil {
		asm.Label = make(map[string]int, 16)
	}
	clear(asm.Label)
}

// placeLabels is the first pass.
func (asm *Assembler) placeLabels(sources []*source) (errs map[*source][]error) {
	errs = map[*source][]error{}

	pc := 0
	for _, src := range sources {
		for _, label := range src.labels {
			_, dup := asm.Label[label]
			switch {
			case !labelRe.MatchString(label):
				errs[src] = append(errs[src], src.syntax(ErrLabelSyntax))
			case dup:
				errs[src] = append(errs[src], src.syntax(ErrLabelDuplicate))
			default:
				asm.Label[label] = pc
			}
		}

		if src.instruction() && src.dead == nil {
			pc++
		}
	}

	return
}

// assemble runs both passes. If an instruction fails, it is marked dead and
// restart is returned.
func (asm *Assembler) assemble(sources []*source) (prog *Program, restart bool) {
	asm.reset()
	labelErrs := asm.placeLabels(sources)

	prog = &Program{}

	pc := 0
	for _, src := range sources {
		prog.Errors = append(prog.Errors, labelErrs[src]...)

		if src.dead != nil {
			prog.Errors = append(prog.Errors, src.dead)
			continue
		}

		if len(src.body) == 0 {
			continue
		}

		asm.Equate["LINENO"] = strconv.Itoa(src.lineNo)

		if !src.instruction() {
			err := asm.equate(src)
			if err != nil {
				prog.Errors = append(prog.Errors, src.syntax(err))
			}
			continue
		}

		line, err := asm.encode(src, pc)
		if err != nil {
			if asm.Verbose {
				log.Printf("%v: dropped: %v", src.lineNo, err)
			}
			src.dead = src.syntax(err)
			restart = true
			return
		}

		prog.Lines = append(prog.Lines, line)
		pc++
	}

	return
}

// equate handles '.equ NAME VALUE'.
func (asm *Assembler) equate(src *source) (err error) {
	text, err := asm.expand(strings.Join(src.body, " "))
	if err != nil {
		return
	}

	words := strings.Fields(text)
	if len(words) != 3 || !labelRe.MatchString(words[1]) {
		err = ErrEquateSyntax
		return
	}

	_, ok := asm.Equate[words[1]]
	if ok {
		err = ErrEquateDuplicate
		return
	}

	value := words[2]
	if equ, ok := asm.Equate[value]; ok {
		value = equ
	}

	asm.Equate[words[1]] = value

	return
}

// encode assembles an instruction line placed at pc.
func (asm *Assembler) encode(src *source, pc int) (line Line, err error) {
	if pc >= machine.PROGRAM_LIMIT {
		err = machine.ErrProgramTooLarge
		return
	}

	text, err := asm.expand(strings.Join(src.body, " "))
	if err != nil {
		return
	}

	words := strings.Fields(text)
	mnemonic := words[0]
	operands := slices.Clone(words[1:])

	for n, word := range operands {
		equate, ok := asm.Equate[word]
		if ok {
			operands[n] = equate
		}
	}

	op, ok := isa.Lookup(mnemonic)
	if ok && len(operands) == op.Operands() {
		switch op {
		case isa.OP_BNE:
			operands[2], err = asm.link(operands[2], pc, true)
		case isa.OP_J:
			operands[0], err = asm.link(operands[0], pc, false)
		}
		if err != nil {
			return
		}
	}

	in, err := isa.Parse(mnemonic, operands)
	if err != nil {
		return
	}

	line = Line{
		LineNo:      src.lineNo,
		Pc:          pc,
		Text:        src.text,
		Words:       words,
		Word:        in.Word(),
		Instruction: in,
	}

	return
}

// link resolves a label operand of a branch or jump at pc.
func (asm *Assembler) link(word string, pc int, relative bool) (value string, err error) {
	value = word

	target, ok := asm.Label[word]
	if !ok {
		if labelRe.MatchString(word) {
			err = ErrLabelMissing(word)
		}
		return
	}

	if relative {
		target -= pc + 1
	}

	value = strconv.Itoa(target)

	return
}

// expand replaces every $(...) with its value.
func (asm *Assembler) expand(text string) (expanded string, err error) {
	expanded = parenRe.ReplaceAllStringFunc(text, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return strconv.FormatInt(value, 10)
	})

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, pc := range asm.Label {
		if _, ok := pred[key]; !ok {
			pred[key] = starlark.MakeInt(pc)
		}
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}
