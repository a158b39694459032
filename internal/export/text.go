package export

import (
	"bufio"
	"io"

	"github.com/piwi3910/RectSect/internal/engine"
	"github.com/piwi3910/RectSect/internal/model"
)

// WriteText prints the classic report: every input rectangle, then every
// intersection in result order, each on a tab-indented line.
func WriteText(w io.Writer, rects []model.Rectangle, ins []engine.Intersection) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("Input:\n")
	for _, r := range rects {
		bw.WriteString("\t" + r.String() + "\n")
	}

	bw.WriteString("Intersections\n")
	if len(ins) == 0 {
		bw.WriteString("\tNo intersections found.\n")
	}
	for _, in := range ins {
		bw.WriteString("\t" + in.String() + "\n")
	}

	return bw.Flush()
}
