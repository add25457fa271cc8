package policy

// Stays of at least this many nights use the long-term policy.
const LongStayThresholdNights = 28

type Source interface {
	ShortPolicy() *CancellationPolicy
	LongPolicy() *CancellationPolicy
}

// Resolve picks the policy that governs a stay of the given length. A nil
// result means the stay carries no policy of the selected type, which the
// refund calculator treats as "no refund" rather than as an error.
func Resolve(nights int, src Source) *CancellationPolicy {
	if src == nil {
		return nil
	}
	if TypeFor(nights) == TypeLong {
		return src.LongPolicy()
	}
	return src.ShortPolicy()
}

func TypeFor(nights int) Type {
	if nights >= LongStayThresholdNights {
		return TypeLong
	}
	return TypeShort
}
