package service

type scanState int

const (
	searching scanState = iota
	collecting
	done
)

// scanBlock returns the indices of the first contiguous run of periods equal
// to target. Later runs of the same label are ignored.
func scanBlock(periods []string, target string) []int {
	var idx []int
	state := searching
	for i, p := range periods {
		if state == done {
			break
		}
		switch state {
		case searching:
			if p == target {
				state = collecting
				idx = append(idx, i)
			}
		case collecting:
			if p != target {
				state = done
				continue
			}
			idx = append(idx, i)
		}
	}
	return idx
}
