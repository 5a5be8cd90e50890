package timeline

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

const keyPrefix = "timeline:"

func key(name string) []byte {
	return []byte(keyPrefix + name)
}

func encode(tl *Timeline) ([]byte, error) {
	data, err := msgpack.Marshal(tl)
	if err != nil {
		return nil, fmt.Errorf("timeline: encode %s: %w", tl.Name, err)
	}
	return data, nil
}

func decode(data []byte) (*Timeline, error) {
	var tl Timeline
	if err := msgpack.Unmarshal(data, &tl); err != nil {
		return nil, fmt.Errorf("timeline: decode: %w", err)
	}
	return &tl, nil
}
