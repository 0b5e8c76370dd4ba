package index

// HashFunc maps a key to an unreduced hash value. The table reduces it
// modulo its current capacity.
type HashFunc func(key string) uint64

// hashSeed is the starting value of the rolling hash.
const hashSeed = 5381

// RollingHash is the default unkeyed hash: hash = hash*33 + b for every byte
// of key, starting from 5381. It is deterministic and offers no protection
// against inputs crafted to collide.
func RollingHash(key string) uint64 {
	var h uint64 = hashSeed
	for i := 0; i < len(key); i++ {
		h = (h << 5) + h + uint64(key[i])
	}
	return h
}
