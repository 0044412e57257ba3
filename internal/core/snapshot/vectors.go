package snapshot

// advance drops the first n bytes from vecs. It rewrites the list in
// place, never the bytes the spans point to.
func advance(vecs [][]byte, n int) [][]byte {
	for n > 0 && len(vecs) > 0 {
		if n < len(vecs[0]) {
			vecs[0] = vecs[0][n:]
			return vecs
		}
		n -= len(vecs[0])
		vecs = vecs[1:]
	}
	return vecs
}

// trimEmpty removes zero-length spans, which would otherwise make a
// partial transfer indistinguishable from end of file.
func trimEmpty(vecs [][]byte) [][]byte {
	out := vecs[:0:0]
	for _, v := range vecs {
		if len(v) > 0 {
			out = append(out, v)
		}
	}
	return out
}
