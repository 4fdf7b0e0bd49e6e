package generator

import (
	"testing"
)

func TestLCG(t *testing.T) {
	t.Run("KnownSequence", func(t *testing.T) {
		g := NewLCG(1234)
		want := []uint32{3067928073, 889114580, 3219257635, 1486326822, 3450746189}
		for i, w := range want {
			if got := g.Next(); got != w {
				t.Errorf("Value %d = %d, want %d", i, got, w)
			}
		}
	})

	t.Run("ZeroSeedUsesDefault", func(t *testing.T) {
		a := NewLCG(0)
		b := NewLCG(1)
		for i := 0; i < 8; i++ {
			if va, vb := a.Next(), b.Next(); va != vb {
				t.Fatalf("Value %d differs: %d vs %d", i, va, vb)
			}
		}
	})

	t.Run("DefaultSeedSequence", func(t *testing.T) {
		g := NewLCG(1)
		want := []uint32{1015568748, 1586005467, 2165703038, 3027450565}
		for i, w := range want {
			if got := g.Next(); got != w {
				t.Errorf("Value %d = %d, want %d", i, got, w)
			}
		}
	})
}

func TestXORShift32(t *testing.T) {
	t.Run("KnownSequence", func(t *testing.T) {
		g := NewXORShift32(9876)
		want := []uint32{2659597149, 1683702475, 2353446282, 621665873, 1177655154}
		for i, w := range want {
			if got := g.Next(); got != w {
				t.Errorf("Value %d = %d, want %d", i, got, w)
			}
		}
	})

	t.Run("ZeroSeedNotAbsorbing", func(t *testing.T) {
		g := NewXORShift32(0)
		want := []uint32{723471715, 2497366906, 2064144800, 2008045182, 3532304609}
		for i, w := range want {
			if got := g.Next(); got != w {
				t.Errorf("Value %d = %d, want %d", i, got, w)
			}
		}
	})
}

func TestMWC(t *testing.T) {
	t.Run("KnownSequence", func(t *testing.T) {
		g := NewMWC(13579)
		want := []uint32{4164187947, 1110506069, 3348795110, 4069192129, 241001905}
		for i, w := range want {
			if got := g.Next(); got != w {
				t.Errorf("Value %d = %d, want %d", i, got, w)
			}
		}
	})

	t.Run("ZeroSeedUsesDefault", func(t *testing.T) {
		g := NewMWC(0)
		want := []uint32{3365960785, 4263145731, 601800440, 2233980836, 2918520535}
		for i, w := range want {
			if got := g.Next(); got != w {
				t.Errorf("Value %d = %d, want %d", i, got, w)
			}
		}
	})
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	t.Run("BuiltinNames", func(t *testing.T) {
		want := []string{NameLCG, NameMWC, NameXORShift32}
		got := r.Names()
		if len(got) != len(want) {
			t.Fatalf("Names() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("SeededConstruction", func(t *testing.T) {
		src, err := r.New(NameLCG, 1234)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if src.Name() != NameLCG {
			t.Errorf("Name = %q, want %q", src.Name(), NameLCG)
		}
		if got := src.Next(); got != 3067928073 {
			t.Errorf("First value = %d, want 3067928073", got)
		}
	})

	t.Run("UnknownGenerator", func(t *testing.T) {
		if _, err := r.New("mersenne", 1); err == nil {
			t.Error("Expected error for unknown generator")
		}
	})
}

func TestFill(t *testing.T) {
	a := NewLCG(1234)
	buf := make([]uint32, 16)
	Fill(a, buf)

	b := NewLCG(1234)
	for i := range buf {
		if want := b.Next(); buf[i] != want {
			t.Errorf("buf[%d] = %d, want %d", i, buf[i], want)
		}
	}
}

func TestCryptoSource(t *testing.T) {
	g := NewCryptoSource()

	// Draw a batch and verify it is not a constant stream.
	seen := make(map[uint32]bool)
	for i := 0; i < 64; i++ {
		seen[g.Next()] = true
	}
	if len(seen) < 2 {
		t.Error("CryptoSource produced a constant stream")
	}
}
