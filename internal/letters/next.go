package letters

// RandSource draws an integer in [0, n). math/rand.Intn satisfies it.
type RandSource func(n int) int

// PickNextUnlearnedIndex chooses the index of the next letter to study.
//
// Sequential mode walks forward circularly from current (exclusive) and
// returns the first unlearned letter. Random mode draws uniformly over the
// unlearned indices using rng. The second return value is false when every
// letter is learned, the list is empty, or current is not in the list.
func PickNextUnlearnedIndex(items []Item, learned []string, current string, random bool, rng RandSource) (int, bool) {
	if len(items) == 0 {
		return 0, false
	}

	currentIndex := -1
	for i, item := range items {
		if item.Letter == current {
			currentIndex = i
			break
		}
	}
	if currentIndex < 0 {
		return 0, false
	}

	known := make(map[string]bool, len(learned))
	for _, l := range learned {
		known[l] = true
	}

	if random {
		var open []int
		for i, item := range items {
			if !known[item.Letter] {
				open = append(open, i)
			}
		}
		if len(open) == 0 || rng == nil {
			return 0, false
		}
		return open[rng(len(open))], true
	}

	for step := 1; step <= len(items); step++ {
		i := (currentIndex + step) % len(items)
		if !known[items[i].Letter] {
			return i, true
		}
	}
	return 0, false
}

// Distractors returns n letters other than target, chosen with shuffle.
func Distractors(target string, n int, shuffle func([]Item)) []string {
	pool := make([]Item, 0, len(All))
	for _, item := range All {
		if item.Letter != target {
			pool = append(pool, item)
		}
	}
	if shuffle != nil {
		shuffle(pool)
	}
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = pool[i].Letter
	}
	return out
}

// Shuffler permutes n elements through swap. math/rand.Shuffle satisfies it.
type Shuffler func(n int, swap func(i, j int))

// Choices returns target together with n distractors in shuffled order and
// the index where target ended up.
func Choices(target string, n int, shuffle Shuffler) ([]string, int) {
	var pick func([]Item)
	if shuffle != nil {
		pick = func(items []Item) {
			shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
		}
	}
	options := append([]string{target}, Distractors(target, n, pick)...)
	if shuffle != nil {
		shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	}
	for i, o := range options {
		if o == target {
			return options, i
		}
	}
	return options, 0
}
