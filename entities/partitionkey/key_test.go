//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2025 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package partitionkey

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyOwnsItsValues(t *testing.T) {
	buf := []byte("2025-08-30")
	key := New(buf)

	// the caller reuses its buffer, the key must not see the mutation
	buf[0] = 'X'

	values := key.Values()
	require.Len(t, values, 1)
	assert.Equal(t, []byte("2025-08-30"), values[0])

	// a returned value slice is a copy as well
	values[0][0] = 'X'
	assert.Equal(t, []byte("2025-08-30"), key.Values()[0])
}

func TestKeyComparesByValue(t *testing.T) {
	a := New([]byte("2025-08-30"), []byte("eu"))
	b := New([]byte("2025-08-30"), []byte("eu"))
	c := New([]byte("2025-08-30"), []byte("us"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	// two independently built equal keys address the same map entry
	m := map[Key]int{}
	m[a] = 1
	m[b] = 2
	assert.Len(t, m, 1)
	assert.Equal(t, 2, m[a])
}

func TestValuesRoundTrip(t *testing.T) {
	values := [][]byte{[]byte("2025-08-30"), []byte("eu"), {}, []byte("x")}
	key := New(values...)

	got := key.Values()
	require.Len(t, got, len(values))
	for i := range values {
		assert.Equal(t, values[i], got[i])
	}

	assert.Equal(t, key, FromBytes(key.Bytes()))
}

func TestEmptyKey(t *testing.T) {
	assert.Equal(t, Key{}, New())
	assert.Nil(t, New().Values())
	assert.Equal(t, "", New().String())
}

func TestKeyOrdering(t *testing.T) {
	keys := []Key{
		New([]byte("us"), []byte("b")),
		New([]byte("eu"), []byte("b")),
		New([]byte("us"), []byte("a")),
		New(),
		New([]byte("eu"), []byte("a")),
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	got := make([]string, len(keys))
	for i, k := range keys {
		got[i] = k.String()
	}
	assert.Equal(t, []string{"", "eu/a", "eu/b", "us/a", "us/b"}, got)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "2025-08-30/eu", New([]byte("2025-08-30"), []byte("eu")).String())
	assert.Equal(t, "eu", New([]byte("eu")).String())
}
