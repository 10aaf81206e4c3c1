package compiler

import (
	"errors"
	"strings"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// code lists the program cells as "MNEMONIC operand", using the symbol name
// for operands that were resolved from a reference.
func code(instructions []Instruction) []string {
	var out []string
	for _, in := range instructions {
		if in.Data {
			continue
		}
		operand := in.Operand
		if in.Ref != "" {
			operand = in.Ref
		}
		out = append(out, in.Mnemonic+" "+operand)
	}
	return out
}

// data lists the storage cells as "name value".
func data(instructions []Instruction) []string {
	var out []string
	for _, in := range instructions {
		if in.Data {
			out = append(out, in.Mnemonic+" "+in.Operand)
		}
	}
	return out
}

func mustTranslate(src string) ([]Instruction, *SymbolTable) {
	tokens, err := Lex(src)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	tr := NewTranslator(nil)
	instructions, err := tr.Translate(tokens)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return instructions, tr.Symbols()
}

var _ = Describe("Translator", func() {
	var (
		mockCtrl *gomock.Controller
		logger   *MockLogger
		tr       *Translator
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		logger = NewMockLogger(mockCtrl)
		tr = NewTranslator(logger)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	translate := func(src string) ([]Instruction, error) {
		tokens, err := Lex(src)
		Expect(err).NotTo(HaveOccurred())
		return tr.Translate(tokens)
	}

	It("should translate a minimal program", func() {
		instructions, err := translate(".data x 5 .main load x stop")

		Expect(err).NotTo(HaveOccurred())
		Expect(instructions).To(HaveLen(5))
		Expect(code(instructions)).To(Equal([]string{"LOAD x", "HALT 00", "HALT 00"}))
		Expect(data(instructions)).To(Equal([]string{"x 05", "$tmp 00"}))

		x, ok := tr.Symbols().Lookup("x")
		Expect(ok).To(BeTrue())
		Expect(x.Address).To(Equal(3))
		Expect(instructions[0].Opcode).To(Equal("00"))
		Expect(instructions[0].Operand).To(Equal("003"))
		Expect(instructions[3].Word()).To(Equal("0005"))
	})

	It("should end the program with halt even when main is empty", func() {
		instructions, err := translate(".main")

		Expect(err).NotTo(HaveOccurred())
		Expect(code(instructions)).To(Equal([]string{"HALT 00"}))
		Expect(instructions[0].Opcode).To(Equal("7C"))
		Expect(data(instructions)).To(Equal([]string{"$tmp 00"}))
	})

	It("should accept segments in any order and skip unknown ones", func() {
		instructions, err := translate(".main output x .text 1 2 3 .data x 2")

		Expect(err).NotTo(HaveOccurred())
		Expect(code(instructions)).To(Equal([]string{"LOAD x", "OUTPUT 00", "HALT 00"}))
		Expect(data(instructions)).To(Equal([]string{"x 02", "$tmp 00"}))
	})

	It("should store literals once per value", func() {
		instructions, err := translate(".main output 0x41 output 65 output 7")

		Expect(err).NotTo(HaveOccurred())
		Expect(code(instructions)).To(Equal([]string{
			"LOAD $41", "OUTPUT 00",
			"LOAD $41", "OUTPUT 00",
			"LOAD $7", "OUTPUT 00",
			"HALT 00",
		}))
		Expect(data(instructions)).To(Equal([]string{"$41 41", "$7 07", "$tmp 00"}))

		v, _ := tr.Symbols().Lookup("$41")
		Expect(v.Implicit).To(BeTrue())
	})

	DescribeTable("command lowering",
		func(src string, expected []string) {
			instructions, err := translate(".data x 1 y 2 .main " + src)
			Expect(err).NotTo(HaveOccurred())
			Expect(code(instructions)).To(Equal(append(expected, "HALT 00")))
		},
		Entry("two variables", "add x y", []string{"LOAD x", "ADD y"}),
		Entry("accumulator on the left", "sub acm y", []string{"SUB y"}),
		Entry("accumulator on both sides", "add acm acm", []string{"STORE $tmp", "ADD $tmp"}),
		Entry("accumulator on the right", "xor x acm", []string{"STORE $tmp", "LOAD x", "XOR $tmp"}),
		Entry("literal operand", "and x 0xf", []string{"LOAD x", "AND $f"}),
		Entry("unary on a variable", "not x", []string{"LOAD x", "NOT 00"}),
		Entry("unary on the accumulator", "lsl acm", []string{"LSL 00"}),
		Entry("every shift", "lsr acm asl acm asr acm rol acm ror acm rcl acm rcr acm",
			[]string{"LSR 00", "ASL 00", "ASR 00", "ROL 00", "ROR 00", "RCL 00", "RCR 00"}),
		Entry("output", "output y", []string{"LOAD y", "OUTPUT 00"}),
		Entry("stop", "stop", []string{"HALT 00"}),
		Entry("input into a variable", "input x", []string{"INPUT 00", "STORE x"}),
		Entry("input into the accumulator", "input acm", []string{"INPUT 00"}),
		Entry("mov between variables", "mov x y", []string{"LOAD y", "STORE x"}),
		Entry("mov from the accumulator", "mov x acm", []string{"STORE x"}),
		Entry("mov into the accumulator", "mov acm 7", []string{"LOAD $7"}),
		Entry("store", "store y", []string{"STORE y"}),
		Entry("goto", "label top goto top", []string{"JMP top"}),
	)

	It("should resolve labels to instruction addresses", func() {
		instructions, err := translate(".main goto skip output 1 label skip stop")

		Expect(err).NotTo(HaveOccurred())
		Expect(code(instructions)).To(Equal([]string{"JMP skip", "LOAD $1", "OUTPUT 00", "HALT 00", "HALT 00"}))
		Expect(instructions[0].Opcode).To(Equal("0E"))
		Expect(instructions[0].Operand).To(Equal("003"))
	})

	It("should pad every field to at least two hex digits", func() {
		instructions, err := translate(".data p 0 x 3 .main mov &p x if [ add x 1 ] c do output x end")

		Expect(err).NotTo(HaveOccurred())
		for _, in := range instructions {
			Expect(len(in.Opcode)).To(BeNumerically(">=", 2), "opcode of %s", in.Mnemonic)
			Expect(len(in.Operand)).To(BeNumerically(">=", 2), "operand of %s", in.Mnemonic)
			if in.Kind != Literal {
				Expect(in.Operand).To(HaveLen(3), "operand of %s %s", in.Mnemonic, in.Ref)
			}
		}
	})

	It("should reset its state between translations", func() {
		tokens, err := Lex(".data x 0 .main if [ load x ] z do output x end")
		Expect(err).NotTo(HaveOccurred())

		first, err := tr.Translate(tokens)
		Expect(err).NotTo(HaveOccurred())
		firstLabels := tr.Symbols().Labels()

		second, err := tr.Translate(tokens)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
		Expect(tr.Symbols().Labels()).To(Equal(firstLabels))
	})

	It("should reject programs that do not fit in memory", func() {
		logger.EXPECT().Error(gomock.Any()).Times(1)

		instructions, err := translate(".main " + strings.Repeat("stop ", MemorySize))

		Expect(instructions).To(BeNil())
		Expect(err).To(MatchError(ContainSubstring("the machine has 4096")))
	})

	It("should report the line of the failing token", func() {
		logger.EXPECT().Error("translator exception at line 3: unknown command: foo").Times(1)

		_, err := translate(".main\nstop\nfoo")

		var trErr *TranslateError
		Expect(errors.As(err, &trErr)).To(BeTrue())
		Expect(trErr.Token.Line).To(Equal(3))
		Expect(trErr.Token.Lexeme).To(Equal("foo"))
	})

	DescribeTable("translation errors",
		func(src, message string) {
			logger.EXPECT().Error(gomock.Any()).Times(1)

			instructions, err := translate(src)

			Expect(instructions).To(BeNil())
			Expect(err).To(BeAssignableToTypeOf(&TranslateError{}))
			Expect(err).To(MatchError(ContainSubstring(message)))
		},
		Entry("missing main", ".data x 1", "main segment is undefined"),
		Entry("duplicate main", ".main stop\n.main stop", "main segment was already defined at line 1"),
		Entry("missing segment dot", "main stop", `operator "." expected`),
		Entry("dangling dot", ".main stop .", "segment name expected"),
		Entry("duplicate variable", ".data x 1 x 2 .main stop", `variable "x" already defined`),
		Entry("accumulator as a variable", ".data acm 1 .main stop", "reserved for the accumulator"),
		Entry("missing data value", ".data x", `value expected for variable "x"`),
		Entry("non-numeric data value", ".data x y .main stop", "numeric value expected"),
		Entry("hex digits without prefix in data", ".data x 1f .main stop", "malformed numeric literal"),
		Entry("hex digits without prefix in main", ".main output 1f", "malformed numeric literal"),
		Entry("unknown command", ".main foo", "unknown command: foo"),
		Entry("number as a command", ".main 5", "expected a command"),
		Entry("missing argument", ".main add acm", "an argument expected for command add"),
		Entry("operator as an argument", ".main output ]", "expected an argument"),
		Entry("mov between accumulators", ".main mov acm acm", "cannot move data from acm to acm"),
		Entry("load of the accumulator", ".main load acm", "cannot move data from acm to acm"),
		Entry("mov into a literal", ".main mov 5 acm", "cannot move data into the literal 5"),
		Entry("store into a literal", ".main store 5", "cannot move data into the literal 5"),
		Entry("input into a literal", ".main input 5", "invalid argument for input"),
		Entry("dereferenced accumulator", ".main output &acm", "the accumulator cannot be dereferenced"),
		Entry("dangling pointer operator", ".main output &", `a pointer name expected after "&"`),
		Entry("undefined variable", ".main output y", `undefined variable "y"`),
		Entry("undefined label", ".main goto nowhere", `undefined label "nowhere"`),
		Entry("duplicate label", ".main label a label a", `label "a" already defined`),
		Entry("label without a name", ".main label 5", "label name expected"),
		Entry("goto at end of main", ".main goto", "expected a label name"),
	)
})
