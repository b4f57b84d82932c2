package msg

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
)

// Progress numbers the steps of a run of known length: "[1/2] ptlib".
type Progress struct {
	Total   int
	current int
}

func NewProgress(total int) *Progress {
	return &Progress{Total: total}
}

// Step prints the next step header.
func (p *Progress) Step(format string, a ...any) {
	p.current++
	width := len(strconv.Itoa(p.Total))
	counter := fmt.Sprintf("[%*d/%d]", width, p.current, p.Total)
	fmt.Fprintf(Output, "%s %s\n", color.HiBlueString(counter), fmt.Sprintf(format, a...))
}
