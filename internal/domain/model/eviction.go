package model

// EvictionBucket is a discrete eviction-rate category reported by the
// provider. Buckets are totally ordered; the top bucket is open-ended.
type EvictionBucket string

// Known buckets, lowest risk first.
const (
	Bucket0To5    EvictionBucket = "0-5"
	Bucket5To10   EvictionBucket = "5-10"
	Bucket10To15  EvictionBucket = "10-15"
	Bucket15To20  EvictionBucket = "15-20"
	Bucket20Plus  EvictionBucket = "20+"
	BucketUnknown EvictionBucket = "unknown"
)

// bucketRanks assigns midpoint ranks used for ordering comparisons.
// Unknown ranks worst so a max-eviction constraint always excludes it.
var bucketRanks = map[EvictionBucket]float64{
	Bucket0To5:   2.5,
	Bucket5To10:  7.5,
	Bucket10To15: 12.5,
	Bucket15To20: 17.5,
	Bucket20Plus: 25.0,
}

const unknownBucketRank = 50.0

// Rank returns the ordering rank of a bucket. Higher means riskier.
func (b EvictionBucket) Rank() float64 {
	if r, ok := bucketRanks[b]; ok {
		return r
	}
	return unknownBucketRank
}

// Known reports whether the bucket is one of the provider's labels.
func (b EvictionBucket) Known() bool {
	_, ok := bucketRanks[b]
	return ok
}

// AtMost reports whether b is at or below max in the bucket order.
// Unknown buckets never satisfy a bound.
func (b EvictionBucket) AtMost(max EvictionBucket) bool {
	return b.Rank() <= max.Rank()
}

// ParseEvictionBucket validates a bucket label from user input.
func ParseEvictionBucket(s string) (EvictionBucket, bool) {
	b := EvictionBucket(s)
	if b.Known() {
		return b, true
	}
	return "", false
}
