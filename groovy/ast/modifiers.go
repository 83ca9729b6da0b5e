package ast

import "strings"

// Modifiers is the modifier bitset of a declaration. The values follow the
// JVM access flags so that later phases can emit them directly.
type Modifiers uint32

const (
	ModPublic       Modifiers = 0x0001
	ModPrivate      Modifiers = 0x0002
	ModProtected    Modifiers = 0x0004
	ModStatic       Modifiers = 0x0008
	ModFinal        Modifiers = 0x0010
	ModSynchronized Modifiers = 0x0020
	ModVolatile     Modifiers = 0x0040
	ModTransient    Modifiers = 0x0080
	ModNative       Modifiers = 0x0100
	ModInterface    Modifiers = 0x0200
	ModAbstract     Modifiers = 0x0400
	ModStrict       Modifiers = 0x0800
	ModSynthetic    Modifiers = 0x1000
	ModAnnotation   Modifiers = 0x2000
	ModEnum         Modifiers = 0x4000

	// ModVisibility masks the three visibility bits.
	ModVisibility = ModPublic | ModPrivate | ModProtected
)

func (m Modifiers) Has(f Modifiers) bool { return m&f == f }

func (m Modifiers) IsPublic() bool    { return m&ModPublic != 0 }
func (m Modifiers) IsPrivate() bool   { return m&ModPrivate != 0 }
func (m Modifiers) IsProtected() bool { return m&ModProtected != 0 }
func (m Modifiers) IsStatic() bool    { return m&ModStatic != 0 }
func (m Modifiers) IsFinal() bool     { return m&ModFinal != 0 }
func (m Modifiers) IsAbstract() bool  { return m&ModAbstract != 0 }
func (m Modifiers) IsInterface() bool { return m&ModInterface != 0 }
func (m Modifiers) IsEnum() bool      { return m&ModEnum != 0 }

var modifierNames = []struct {
	flag Modifiers
	name string
}{
	{ModPublic, "public"},
	{ModProtected, "protected"},
	{ModPrivate, "private"},
	{ModAbstract, "abstract"},
	{ModStatic, "static"},
	{ModFinal, "final"},
	{ModTransient, "transient"},
	{ModVolatile, "volatile"},
	{ModSynchronized, "synchronized"},
	{ModNative, "native"},
	{ModStrict, "strictfp"},
	{ModInterface, "interface"},
	{ModAnnotation, "annotation"},
	{ModEnum, "enum"},
	{ModSynthetic, "synthetic"},
}

// Names lists the set modifiers in source order.
func (m Modifiers) Names() []string {
	var names []string
	for _, mn := range modifierNames {
		if m&mn.flag != 0 {
			names = append(names, mn.name)
		}
	}
	return names
}

func (m Modifiers) String() string {
	return strings.Join(m.Names(), " ")
}

// MarshalText renders the bitset as its names so that dumps stay readable.
func (m Modifiers) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
