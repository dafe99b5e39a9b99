package mesh

// Rect returns a quad centered on the origin in the XY plane with the given
// half extents, counter-clockwise, UV origin at the top left.
func Rect(halfW, halfH float32) Data {
	return RectUV(halfW, halfH, [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}})
}

// RectUV is Rect with explicit texture coordinates for the bottom-left,
// bottom-right, top-right and top-left corners.
func RectUV(halfW, halfH float32, uv [4][2]float32) Data {
	return Data{
		Vertices: []Vertex{
			{Position: [3]float32{-halfW, -halfH, 0}, TexCoords: uv[0]},
			{Position: [3]float32{halfW, -halfH, 0}, TexCoords: uv[1]},
			{Position: [3]float32{halfW, halfH, 0}, TexCoords: uv[2]},
			{Position: [3]float32{-halfW, halfH, 0}, TexCoords: uv[3]},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// UnitQuad is the 1x1 quad shared by sprite batches.
func UnitQuad() Data {
	return Rect(0.5, 0.5)
}

// Cube returns an axis-aligned cube with the given edge length. Each face has
// its own four vertices so every face maps the full texture.
func Cube(size float32) Data {
	h := size / 2
	// corners per face, counter-clockwise seen from outside
	faces := [6][4][3]float32{
		{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}},     // +Z
		{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}, // -Z
		{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}},     // +X
		{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}, // -X
		{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}},     // +Y
		{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}, // -Y
	}
	uv := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	d := Data{
		Vertices: make([]Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	for _, face := range faces {
		base := uint32(len(d.Vertices))
		for i, p := range face {
			d.Vertices = append(d.Vertices, Vertex{Position: p, TexCoords: uv[i]})
		}
		d.Indices = append(d.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return d
}
