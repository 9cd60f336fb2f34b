package storage

import "fmt"

// Width of twox128(pallet) ++ twox128(item) in hex characters.
const PrefixHexLen = 64

// StoragePrefix returns twox128(pallet) ++ twox128(item). Plain storage
// values live at exactly this key; maps use it as their iteration prefix.
func StoragePrefix(pallet, item string) []byte {
	return append(Twox128([]byte(pallet)), Twox128([]byte(item))...)
}

// Map describes the key layout of one storage map. KeyLen is the width of
// the encoded map key that follows the item hash.
type Map struct {
	Pallet string
	Item   string
	Hasher Hasher
	KeyLen int
}

var (
	// System.BlockHash: Twox64Concat(u32 LE) -> H256
	BlockHashMap = Map{Pallet: "System", Item: "BlockHash", Hasher: Twox64Concat, KeyLen: 4}

	// System.Account: Blake2_128Concat(AccountId32) -> AccountInfo
	AccountMap = Map{Pallet: "System", Item: "Account", Hasher: Blake2_128Concat, KeyLen: 32}
)

// Plain storage values read by the tool.
var (
	EventsKey        = StoragePrefix("System", "Events")
	TotalIssuanceKey = StoragePrefix("Balances", "TotalIssuance")
)

func (m Map) String() string {
	return m.Pallet + "." + m.Item
}

func (m Map) Prefix() []byte {
	return StoragePrefix(m.Pallet, m.Item)
}

// ItemHashHexLen is the width of the item hash in hex characters.
func (m Map) ItemHashHexLen() int {
	return 2 * m.Hasher.HashLen()
}

// Key returns the full storage key for an encoded map key.
func (m Map) Key(mapKey []byte) []byte {
	return append(m.Prefix(), m.Hasher.Hash(mapKey)...)
}

// MapKey strips the prefix and item hash off a full storage key and returns
// the encoded map key. The layout comes from m, never from the key itself.
func (m Map) MapKey(key []byte) ([]byte, error) {
	head := PrefixHexLen/2 + m.Hasher.HashLen()
	if len(key) < head {
		return nil, &DecodeError{
			Key:    fmt.Sprintf("%x", key),
			Reason: fmt.Sprintf("%s key shorter than its %d byte prefix", m, head),
		}
	}
	rest := key[head:]
	if len(rest) != m.KeyLen {
		return nil, &DecodeError{
			Key:    fmt.Sprintf("%x", key),
			Reason: fmt.Sprintf("%s map key is %d bytes, want %d", m, len(rest), m.KeyLen),
		}
	}
	return rest, nil
}
