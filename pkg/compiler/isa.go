package compiler

// opcode is one machine instruction of the DeComp target.
type opcode struct {
	Code string // hex digits; one nibble for addressed ops, two for fused ops
	Name string // listing mnemonic
}

// instructionSet is keyed by the lower-case mnemonic the translator emits.
var instructionSet = map[string]opcode{
	"load":   {"0", "LOAD"},
	"store":  {"1", "STORE"},
	"add":    {"2", "ADD"},
	"sub":    {"3", "SUB"},
	"and":    {"4", "AND"},
	"or":     {"5", "OR"},
	"xor":    {"6", "XOR"},
	"not":    {"70", "NOT"},
	"input":  {"74", "INPUT"},
	"output": {"78", "OUTPUT"},
	"halt":   {"7C", "HALT"},
	"jnz":    {"8", "JNZ"},
	"jz":     {"9", "JZ"},
	"jns":    {"A", "JP"},
	"js":     {"B", "JM"},
	"jnc":    {"C", "JNC"},
	"jc":     {"D", "JC"},
	"jmp":    {"E", "JMP"},
	"lsl":    {"F0", "LSL"},
	"lsr":    {"F2", "LSR"},
	"asl":    {"F4", "ASL"},
	"asr":    {"F6", "ASR"},
	"rol":    {"F8", "ROL"},
	"ror":    {"FA", "ROR"},
	"rcl":    {"FC", "RCL"},
	"rcr":    {"FE", "RCR"},
}

// command describes one DeCompLanguage statement keyword.
type command struct {
	instruction string
	args        int
	special     bool
}

var commands = map[string]command{
	"add":    {instruction: "add", args: 2},
	"sub":    {instruction: "sub", args: 2},
	"and":    {instruction: "and", args: 2},
	"or":     {instruction: "or", args: 2},
	"xor":    {instruction: "xor", args: 2},
	"not":    {instruction: "not", args: 1},
	"output": {instruction: "output", args: 1},
	"lsl":    {instruction: "lsl", args: 1},
	"lsr":    {instruction: "lsr", args: 1},
	"asl":    {instruction: "asl", args: 1},
	"asr":    {instruction: "asr", args: 1},
	"rol":    {instruction: "rol", args: 1},
	"ror":    {instruction: "ror", args: 1},
	"rcl":    {instruction: "rcl", args: 1},
	"rcr":    {instruction: "rcr", args: 1},
	"stop":   {instruction: "halt"},

	"load":  {special: true},
	"store": {special: true},
	"input": {special: true},
	"label": {special: true},
	"goto":  {special: true},
	"mov":   {special: true},
	"if":    {special: true},
	"while": {special: true},
}

var operators = []string{"[", "]", ".", "&"}

// conditions are the flag tests allowed after an if/while condition block;
// each maps to the jump "j" + name.
var conditions = map[string]bool{
	"z":  true,
	"nz": true,
	"s":  true,
	"ns": true,
	"c":  true,
	"nc": true,
}

const (
	accumulator = "acm"
	scratchVar  = "$tmp"

	// addressWidth is the number of hex digits in a resolved address.
	addressWidth = 3
	// fieldWidth is the minimum number of hex digits in opcode and operand fields.
	fieldWidth = 2
	// wordWidth is the number of hex digits in one machine word.
	wordWidth = 4
	// MemorySize is the number of addressable cells of the target machine.
	MemorySize = 0x1000
)
