package scan

import (
	"io"
)

// PortIterator walks an inclusive port range in ascending order.
type PortIterator struct {
	start int
	end   int
	next  int
}

func NewPortIterator(start int, end int) *PortIterator {
	return &PortIterator{
		start: start,
		end:   end,
		next:  start,
	}
}

func (pi *PortIterator) Peek() (int, error) {
	if pi.next > pi.end {
		return 0, io.EOF
	}
	return pi.next, nil
}

func (pi *PortIterator) Next() (int, error) {
	port, err := pi.Peek()
	if err != nil {
		return 0, err
	}
	pi.next++
	return port, nil
}

func (pi *PortIterator) Total() int {
	if pi.end < pi.start {
		return 0
	}
	return pi.end - pi.start + 1
}
