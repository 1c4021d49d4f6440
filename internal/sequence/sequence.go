// Package sequence computes deterministic judging orders: the per-seat
// tasting sequence over a flight of submissions, seeded shuffles for
// assignment plans, and round-robin distribution of submissions to tables.
//
// Everything here is pure. Given the same inputs the same order comes out
// on every platform, so paper backups printed before an event stay valid.
package sequence

import "fmt"

// SeatSequence returns the order in which the judge at seatNumber works
// through submissions numbered 1..submissionCount at a table with
// seatCount seats.
//
// Each judge starts with the submission matching their own seat number.
// When there are more submissions than seats, seats in the lower half pick
// up the extra submissions (seatCount+1..submissionCount) next and then
// walk the first batch downward, while seats in the upper half walk the
// first batch downward first and take the extras in reverse. This keeps
// judges spread across the flight instead of queuing on the same box.
func SeatSequence(seatCount, submissionCount, seatNumber int) ([]int, error) {
	if seatNumber < 1 || seatNumber > seatCount {
		return nil, fmt.Errorf("seat number %d out of range [1..%d]", seatNumber, seatCount)
	}
	if submissionCount <= 0 {
		return []int{}, nil
	}

	seq := make([]int, 0, submissionCount)
	if submissionCount <= seatCount {
		if seatNumber <= submissionCount {
			seq = append(seq, seatNumber)
		}
		for n := submissionCount; n >= 1; n-- {
			if n != seatNumber {
				seq = append(seq, n)
			}
		}
		return seq, nil
	}

	seq = append(seq, seatNumber)
	midpoint := (seatCount + 1) / 2
	if seatNumber <= midpoint {
		for n := seatCount + 1; n <= submissionCount; n++ {
			seq = append(seq, n)
		}
		for n := seatCount; n >= 1; n-- {
			if n != seatNumber {
				seq = append(seq, n)
			}
		}
	} else {
		for n := seatCount; n >= 1; n-- {
			if n != seatNumber {
				seq = append(seq, n)
			}
		}
		for n := submissionCount; n >= seatCount+1; n-- {
			seq = append(seq, n)
		}
	}
	return seq, nil
}

// SeedFromString derives a shuffle seed from s using a 32-bit rolling hash
// (h = h*31 + c, truncated to int32 at every step).
func SeedFromString(s string) int64 {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	return int64(h)
}

// ShuffleWithSeed returns a copy of items permuted by a Fisher-Yates shuffle
// driven by a fixed linear congruential generator
// (x <- (x*1103515245 + 12345) mod 2^31), so the same seed produces the
// same order everywhere.
func ShuffleWithSeed[T any](items []T, seed int64) []T {
	out := make([]T, len(items))
	copy(out, items)

	state := seed % (1 << 31)
	if state < 0 {
		state = -state
	}
	if state == 0 {
		state = 1
	}
	next := func() int64 {
		state = (state*1103515245 + 12345) % (1 << 31)
		return state
	}

	for i := len(out) - 1; i > 0; i-- {
		j := next() % int64(i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// DistributeRoundRobin deals items across n buckets in order: item i goes
// to bucket i mod n. Buckets come back empty when there are fewer items
// than buckets.
func DistributeRoundRobin[T any](items []T, n int) [][]T {
	if n <= 0 {
		return nil
	}
	buckets := make([][]T, n)
	for i, item := range items {
		buckets[i%n] = append(buckets[i%n], item)
	}
	return buckets
}
