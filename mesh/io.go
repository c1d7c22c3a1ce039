package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
)

// rosySymmetry is the symmetry order written into field files.
const rosySymmetry = 4

// ReadOBJ parses the "v" and "f" records of a Wavefront OBJ stream.
// Polygons are fan-triangulated; "a/b/c" tokens and negative indices are
// accepted; every other record is ignored.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	var verts []v3.Vec
	var faces []Face

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, errors.Errorf("obj line %d: vertex needs three coordinates", line)
			}
			var c [3]float64
			for i := 0; i < 3; i++ {
				x, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, errors.Wrapf(err, "obj line %d", line)
				}
				c[i] = x
			}
			verts = append(verts, v3.Vec{X: c[0], Y: c[1], Z: c[2]})
		case "f":
			if len(fields) < 4 {
				return nil, errors.Errorf("obj line %d: face needs at least three vertices", line)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				if k := strings.IndexByte(tok, '/'); k >= 0 {
					tok = tok[:k]
				}
				i, err := strconv.Atoi(tok)
				if err != nil {
					return nil, errors.Wrapf(err, "obj line %d", line)
				}
				if i < 0 {
					i = len(verts) + i
				} else {
					i--
				}
				idx = append(idx, i)
			}
			for k := 1; k+1 < len(idx); k++ {
				faces = append(faces, Face{idx[0], idx[k], idx[k+1]})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading obj")
	}

	m, err := New(verts, faces)
	if err != nil {
		return nil, errors.Wrap(err, "building mesh from obj")
	}
	return m, nil
}

// WriteOBJ writes m as "v" and "f" records with 1-based indices.
func WriteOBJ(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	for _, p := range m.verts {
		fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
	}
	for _, f := range m.faces {
		fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}
	return errors.Wrap(bw.Flush(), "writing obj")
}

// ReadField parses a ".rosy" direction field: the face count, the symmetry
// order, then one "x y z" vector per face. The count must match m.
func ReadField(r io.Reader, m *Mesh) ([]v3.Vec, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}

	tok, ok := next()
	if !ok {
		return nil, errors.New("field: missing face count")
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return nil, errors.Wrap(err, "field: face count")
	}
	if n != m.NumFaces() {
		return nil, errors.Wrapf(ErrFieldSize, "field has %d vectors, mesh has %d faces", n, m.NumFaces())
	}
	if _, ok = next(); !ok {
		return nil, errors.New("field: missing symmetry order")
	}

	field := make([]v3.Vec, n)
	for f := 0; f < n; f++ {
		var c [3]float64
		for i := 0; i < 3; i++ {
			tok, ok = next()
			if !ok {
				return nil, errors.Errorf("field: truncated at face %d", f)
			}
			if c[i], err = strconv.ParseFloat(tok, 64); err != nil {
				return nil, errors.Wrapf(err, "field: face %d", f)
			}
		}
		field[f] = v3.Vec{X: c[0], Y: c[1], Z: c[2]}
	}
	return field, errors.Wrap(sc.Err(), "reading field")
}

// WriteField writes field in the ".rosy" layout read by ReadField.
func WriteField(w io.Writer, field []v3.Vec) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n%d\n", len(field), rosySymmetry)
	for _, d := range field {
		fmt.Fprintf(bw, "%g %g %g\n", d.X, d.Y, d.Z)
	}
	return errors.Wrap(bw.Flush(), "writing field")
}
