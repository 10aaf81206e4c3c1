package compiler

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Pointers", func() {
	It("should emit the self-modifying bundle for a pointer load", func() {
		instructions, syms := mustTranslate(".data p 0 .main mov acm &p output acm")

		Expect(code(instructions)).To(Equal([]string{
			"STORE $tmp",
			"LOAD p",
			"ADD $inst_load",
			"STORE 005",
			"LOAD $tmp",
			"NULL 00",
			"OUTPUT 00",
			"HALT 00",
		}))
		Expect(data(instructions)).To(Equal([]string{"p 00", "$inst_load 0000", "$tmp 00"}))

		constant, ok := syms.Lookup("$inst_load")
		Expect(ok).To(BeTrue())
		Expect(constant.Implicit).To(BeTrue())
		Expect(instructions[5].Word()).To(Equal("0000"))
	})

	It("should point the computed store at the placeholder", func() {
		instructions, _ := mustTranslate(".data p 0 q 0 x 1 .main mov &p x add x &q mov &q &p")

		bundles := 0
		for i, in := range instructions {
			if in.Mnemonic != "NULL" {
				continue
			}
			bundles++
			slot := instructions[i-2]
			Expect(slot.Mnemonic).To(Equal("STORE"))
			Expect(slot.Kind).To(Equal(Literal))
			Expect(slot.Operand).To(Equal(fmt.Sprintf("%03x", i)))
		}
		Expect(bundles).To(Equal(4))
	})

	DescribeTable("opcode constants",
		func(src, name, value string) {
			_, syms := mustTranslate(".data p 0 x 0 .main " + src)
			v, ok := syms.Lookup(name)
			Expect(ok).To(BeTrue())
			Expect(v.Value).To(Equal(value))
		},
		Entry("load", "output &p", "$inst_load", "0000"),
		Entry("store", "mov &p x", "$inst_store", "1000"),
		Entry("add", "add acm &p", "$inst_add", "2000"),
		Entry("sub", "sub x &p", "$inst_sub", "3000"),
		Entry("xor", "xor acm &p", "$inst_xor", "6000"),
	)

	It("should lower a store through a pointer", func() {
		instructions, _ := mustTranslate(".data p 0 x 0 .main mov &p x")

		Expect(code(instructions)).To(Equal([]string{
			"LOAD x",
			"STORE $tmp",
			"LOAD p",
			"ADD $inst_store",
			"STORE 006",
			"LOAD $tmp",
			"NULL 00",
			"HALT 00",
		}))
	})

	It("should keep the accumulator when it is the right operand of a pointer", func() {
		instructions, _ := mustTranslate(".data p 0 .main add &p acm")

		Expect(code(instructions)).To(Equal([]string{
			"STORE $tmp",
			"STORE $tmp",
			"LOAD p",
			"ADD $inst_load",
			"STORE 006",
			"LOAD $tmp",
			"NULL 00",
			"ADD $tmp",
			"HALT 00",
		}))
	})

	It("should input through a pointer", func() {
		instructions, _ := mustTranslate(".data p 0 .main input &p")

		Expect(code(instructions)[:2]).To(Equal([]string{"INPUT 00", "STORE $tmp"}))
		Expect(code(instructions)).To(ContainElement("ADD $inst_store"))
	})
})
