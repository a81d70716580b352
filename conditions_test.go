package weave_test

import (
	"encoding/json"
	"fmt"
	"testing"

	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressPrinting(t *testing.T) {
	Convey("test hexademical address printing", t, func() {
		b := []byte("ABCD123456LHB")
		addr := weave.Address(b)

		So(addr.String(), ShouldNotEqual, fmt.Sprintf("%X", addr))
	})

	Convey("test hexademical condition printing", t, func() {
		cond := weave.NewCondition("12", "32", []byte("ABCD123456LHB"))

		So(cond.String(), ShouldNotEqual, fmt.Sprintf("%X", cond))
	})
}

func TestAddressUnmarshalJSON(t *testing.T) {
	instance := weave.NewCondition("deploy", "instance", []byte("some-digest")).Address()
	bech, err := instance.Bech32()
	require.NoError(t, err)

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr weave.Address
	}{
		"default decoding": {
			json:     `"6865782d61646472"`,
			wantAddr: weave.Address("hex-addr"),
		},
		"hex decoding": {
			json:     `"hex:6865782d61646472"`,
			wantAddr: weave.Address("hex-addr"),
		},
		"cond decoding": {
			json:     `"cond:foo/bar/636f6e646974696f6e64617461"`,
			wantAddr: weave.NewCondition("foo", "bar", []byte("conditiondata")).Address(),
		},
		"bech32 decoding": {
			json:     `"bech32:` + bech + `"`,
			wantAddr: instance,
		},
		"invalid condition format": {
			json:    `"cond:foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInvalidInput,
		},
		"invalid condition data": {
			json:    `"cond:foo/bar/zzzzz"`,
			wantErr: errors.ErrInvalidInput,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: errors.ErrInvalidType,
		},
		"empty string": {
			json:     `""`,
			wantAddr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a weave.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.wantAddr, a)
			}
		})
	}
}

func TestAddressValidate(t *testing.T) {
	assert.True(t, errors.ErrEmpty.Is(weave.Address(nil).Validate()))
	assert.True(t, errors.ErrInvalidInput.Is(weave.Address("short").Validate()))
	assert.NoError(t, weave.NewCondition("cash", "asset", []byte("XLM")).Address().Validate())
}

func TestAddressClone(t *testing.T) {
	a := weave.NewAddress([]byte("original"))
	b := a.Clone()
	require.True(t, a.Equals(b))
	b[0]++
	assert.False(t, a.Equals(b))
	assert.Nil(t, weave.Address(nil).Clone())
}

func TestConditionParse(t *testing.T) {
	cond := weave.NewCondition("deploy", "instance", []byte{0xde, 0xad})
	ext, typ, data, err := cond.Parse()
	require.NoError(t, err)
	assert.Equal(t, "deploy", ext)
	assert.Equal(t, "instance", typ)
	assert.Equal(t, []byte{0xde, 0xad}, data)

	_, _, _, err = weave.Condition("no-slashes-here").Parse()
	assert.True(t, errors.ErrInvalidInput.Is(err))
}
