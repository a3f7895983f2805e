package property

// EstimateSize returns an upper bound on the number of bytes AppendValue
// writes for v. The chunk writer uses it to decide between appending to the
// tail chunk and rotating to a new one, so the bound must never be below the
// encoded size.
func EstimateSize(v Value) int {
	switch v.Kind {
	case KindInt, KindDouble:
		return 1 + 8
	case KindBool:
		return 1 + 1
	case KindString:
		return 1 + 8 + len(v.S)
	case KindMap:
		total := 1 + 8
		for k, item := range v.M {
			total += 8 + len(k)
			total += EstimateSize(item)
		}
		return total
	default:
		return 0
	}
}

// EstimateMapSize returns the encoded size bound of a property map body as
// it appears inside a record frame: a u64 entry count plus per-entry key
// framing and value frames.
func EstimateMapSize(m Map) int {
	total := 8
	for k, v := range m {
		total += 8 + len(k)
		total += EstimateSize(v)
	}
	return total
}
