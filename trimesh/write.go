package trimesh

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

const graphmlHeader = `<?xml version="1.0" encoding="UTF-8"?>
<graphml xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns="http://graphml.graphdrawing.org/xmlns" xsi:schemaLocation="http://graphml.graphdrawing.org/xmlns http://graphml.graphdrawing.org/xmlns/1.0/graphml.xsd">
  <key attr.name="vertex-coordinate-x" attr.type="string" for="node" id="x"/>
  <key attr.name="vertex-coordinate-y" attr.type="string" for="node" id="y"/>
  <key attr.name="edge-weight" attr.type="string" for="edge" id="w">
    <default>1.0</default>
  </key>
  <key attr.name="edge-weight-additive" attr.type="string" for="edge" id="wa">
    <default>0.0</default>
  </key>
  <graph edgedefault="undirected">
`

// writeNode prints one vertex as a graphml node. Coordinates are scaled
// because some graphml viewers cannot zoom; a zero factor derives a scale
// from the polygon size.
func (m *Mesh) writeNode(w io.Writer, v VertexID, factor float64) error {
	if factor == 0 {
		n := m.VertexCount()
		switch {
		case n < 100:
			factor = 100.0 / float64(n)
		case n < 5000:
			factor = 10
		default:
			factor = 20
		}
	}
	rec := m.vertex(v)
	_, err := fmt.Fprintf(w, "<node positionX=\"%f\" positionY=\"%f\" id=\"%d\" mainText=\"%d\"></node>\n",
		rec.pos.X*factor, rec.pos.Y*factor, rec.uid, rec.uid)
	return err
}

func (m *Mesh) writeEdge(w io.Writer, e EdgeID) error {
	rec := m.edge(e)
	_, err := fmt.Fprintf(w, "<edge id=\"%d\" source=\"%d\" target=\"%d\"></edge>\n",
		e, m.vertex(rec.v0).uid, m.vertex(rec.v1).uid)
	return err
}

// WriteTriangulation writes the whole triangulation in graphml style: the
// bounding box corners first, then all polygon vertices, then every edge.
func (m *Mesh) WriteTriangulation(w io.Writer) error {
	const scale = 5000

	if _, err := io.WriteString(w, graphmlHeader); err != nil {
		return errors.Wrap(err, "write graphml header")
	}

	if m.frame[0] != 0 {
		for _, v := range m.frame {
			if err := m.writeNode(w, v, scale); err != nil {
				return err
			}
		}
	}
	for _, r := range m.rings {
		for _, v := range r.vertices {
			if err := m.writeNode(w, v, scale); err != nil {
				return err
			}
		}
	}

	for id := 1; id < len(m.edges); id++ {
		if !m.edges[id].alive {
			continue
		}
		if err := m.writeEdge(w, EdgeID(id)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</graph>\n</graphml>\n")
	return err
}

// WritePolygon writes just the polygon rings in graphml style, without the
// bounding box and triangulation edges.
func (m *Mesh) WritePolygon(w io.Writer) error {
	const scale = 1

	if _, err := io.WriteString(w, graphmlHeader); err != nil {
		return errors.Wrap(err, "write graphml header")
	}

	for _, r := range m.rings {
		for _, v := range r.vertices {
			if err := m.writeNode(w, v, scale); err != nil {
				return err
			}
		}
	}
	for _, r := range m.rings {
		for _, v := range r.vertices {
			if err := m.writeEdge(w, m.ToNext(v)); err != nil {
				return err
			}
		}
	}

	_, err := io.WriteString(w, "</graph>\n</graphml>\n")
	return err
}

func (m *Mesh) writeVertexDat(w io.Writer, v VertexID) error {
	p := m.Pos(v)
	_, err := fmt.Fprintf(w, "%f %f\n", p.X, p.Y)
	return err
}

// WritePolygonDat writes all rings to a gnuplot readable .dat stream. Each
// ring is closed by repeating its start vertex and rings are separated by a
// blank line pair.
func (m *Mesh) WritePolygonDat(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "\"outer polygon\"\n"); err != nil {
		return errors.Wrap(err, "write dat header")
	}
	if err := m.writeRingDat(w, m.rings[0]); err != nil {
		return err
	}

	for i, r := range m.rings[1:] {
		if _, err := fmt.Fprintf(w, "\n\n\"inner polygon %d\"\n", i); err != nil {
			return err
		}
		if err := m.writeRingDat(w, r); err != nil {
			return err
		}
	}
	return nil
}

// writeRingDat follows the polygon edge chain rather than the construction
// order, so inserted vertices appear where they live on the boundary.
func (m *Mesh) writeRingDat(w io.Writer, r *Ring) error {
	start := r.vertices[0]
	if err := m.writeVertexDat(w, start); err != nil {
		return err
	}
	for v := m.NextVertex(start); v != start; v = m.NextVertex(v) {
		if err := m.writeVertexDat(w, v); err != nil {
			return err
		}
	}
	return m.writeVertexDat(w, start)
}

// WritePolygonLine writes all rings in .line format: a vertex count
// (including the repeated start vertex) followed by one coordinate pair per
// line with 16 significant digits.
func (m *Mesh) WritePolygonLine(w io.Writer) error {
	for _, r := range m.rings {
		if err := m.writeRingLine(w, r); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mesh) writeRingLine(w io.Writer, r *Ring) error {
	if _, err := fmt.Fprintf(w, "%d\n", len(r.vertices)+1); err != nil {
		return err
	}
	write := func(v VertexID) error {
		p := m.Pos(v)
		_, err := fmt.Fprintf(w, "%s %s\n",
			strconv.FormatFloat(p.X, 'g', 16, 64),
			strconv.FormatFloat(p.Y, 'g', 16, 64))
		return err
	}
	start := r.vertices[0]
	if err := write(start); err != nil {
		return err
	}
	for v := m.NextVertex(start); v != start; v = m.NextVertex(v) {
		if err := write(v); err != nil {
			return err
		}
	}
	if err := write(start); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
