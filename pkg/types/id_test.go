package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr error
	}{
		{name: "canonical", input: "11.001", want: ID{Category: 11, Item: 1}},
		{name: "zero", input: "00.000", want: ID{}},
		{name: "upper limits", input: "99.999", want: ID{Category: 99, Item: 999}},
		{name: "unpadded", input: "3.7", want: ID{Category: 3, Item: 7}},
		{name: "category too large", input: "100.001", wantErr: ErrInvalidID},
		{name: "item too large", input: "11.1000", wantErr: ErrInvalidID},
		{name: "missing separator", input: "11001", wantErr: ErrInvalidID},
		{name: "two separators", input: "11.001.2", wantErr: ErrInvalidID},
		{name: "negative category", input: "-1.001", wantErr: ErrInvalidID},
		{name: "signed item", input: "11.+01", wantErr: ErrInvalidID},
		{name: "empty item", input: "11.", wantErr: ErrInvalidID},
		{name: "letters", input: "ab.cde", wantErr: ErrInvalidID},
		{name: "empty", input: "", wantErr: ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIDString(t *testing.T) {
	assert.Equal(t, "11.001", ID{Category: 11, Item: 1}.String())
	assert.Equal(t, "01.020", ID{Category: 1, Item: 20}.String())
	assert.Equal(t, "99.999", ID{Category: 99, Item: 999}.String())
}

func TestIDRoundTrip(t *testing.T) {
	for c := 0; c < MaxCategories; c++ {
		for i := 0; i < MaxItems; i++ {
			id := ID{Category: c, Item: i}
			got, err := ParseID(id.String())
			if err != nil {
				t.Fatalf("ParseID(%q): %v", id.String(), err)
			}
			if got != id {
				t.Fatalf("round trip of %v gave %v", id, got)
			}
		}
	}
}

func TestIDTextMarshaling(t *testing.T) {
	item := Item{ID: ID{Category: 21, Item: 42}, Name: "Taxes2023"}

	b, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"21.042","name":"Taxes2023"}`, string(b))

	var back Item
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, item, back)

	err = json.Unmarshal([]byte(`{"id":"210.042","name":"x"}`), &back)
	assert.ErrorIs(t, err, ErrInvalidID)
}
