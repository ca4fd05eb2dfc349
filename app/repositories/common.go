package repositories

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const (
	// PostKeyPrefix prefixes every post record
	PostKeyPrefix = "post:"

	// PostSeqKey holds the last issued post ID
	PostSeqKey = "seq:post"
)

// postKey zero-pads the ID so that key order matches ID order.
func postKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%019d", PostKeyPrefix, id))
}

// getNextID gets the next available ID for a given sequence key
func getNextID(txn *badger.Txn, seqKey string) (int64, error) {
	last, err := readSeq(txn, seqKey)
	if err != nil {
		return 0, err
	}
	id := last + 1
	if err := setSeq(txn, seqKey, id); err != nil {
		return 0, err
	}
	return id, nil
}

// readSeq returns the last issued ID, or 0 when none was issued yet
func readSeq(txn *badger.Txn, seqKey string) (int64, error) {
	item, err := txn.Get([]byte(seqKey))
	if err == badger.ErrKeyNotFound {
		return 0, nil
	} else if err != nil {
		return 0, err
	}

	var id int64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupt sequence %q: %d bytes", seqKey, len(val))
		}
		id = int64(binary.BigEndian.Uint64(val))
		return nil
	})
	return id, err
}

func setSeq(txn *badger.Txn, seqKey string, id int64) error {
	idBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(idBytes, uint64(id))
	return txn.Set([]byte(seqKey), idBytes)
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}
