// Copyright (c) 2025 privateLINE, LLC.

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedAll(s *frameSplitter, chunks ...[]byte) []string {
	var ret []string
	for _, c := range chunks {
		for _, f := range s.Feed(c) {
			ret = append(ret, string(f))
		}
	}
	return ret
}

func TestFrameSplitterSingleChunk(t *testing.T) {
	var s frameSplitter
	got := feedAll(&s, []byte("{\"Command\":\"A\"}\n{\"Command\":\"B\"}\n{\"Comm"))
	assert.Equal(t, []string{`{"Command":"A"}`, `{"Command":"B"}`}, got)
	assert.Equal(t, len(`{"Comm`), s.Pending())

	got = feedAll(&s, []byte("and\":\"C\"}\n"))
	assert.Equal(t, []string{`{"Command":"C"}`}, got)
	assert.Zero(t, s.Pending())
}

func TestFrameSplitterAnyChunking(t *testing.T) {
	stream := []byte("{\"Command\":\"HelloResp\",\"Idx\":1}\n\n{\"Command\":\"ServerListResp\",\"Idx\":1}\n{\"Command\":\"X\"}\n")
	expected := []string{
		`{"Command":"HelloResp","Idx":1}`,
		`{"Command":"ServerListResp","Idx":1}`,
		`{"Command":"X"}`,
	}

	// two chunks split at every position
	for i := 0; i <= len(stream); i++ {
		var s frameSplitter
		got := feedAll(&s, stream[:i], stream[i:])
		require.Equal(t, expected, got, "split at %d", i)
		require.Zero(t, s.Pending())
	}

	// byte by byte
	var s frameSplitter
	var chunks [][]byte
	for i := range stream {
		chunks = append(chunks, stream[i:i+1])
	}
	assert.Equal(t, expected, feedAll(&s, chunks...))
}

func TestFrameSplitterSplitAtSeparator(t *testing.T) {
	var s frameSplitter
	assert.Empty(t, s.Feed([]byte(`{"Command":"A"}`)))
	assert.Equal(t, [][]byte{[]byte(`{"Command":"A"}`)}, s.Feed([]byte("\n")))

	assert.Empty(t, s.Feed([]byte(`{"Command":"B"}`)))
	assert.Equal(t, [][]byte{[]byte(`{"Command":"B"}`)}, s.Feed([]byte("\n{")))
	assert.Equal(t, 1, s.Pending())
}

func TestFrameSplitterDoesNotAliasInput(t *testing.T) {
	var s frameSplitter
	buf := []byte("{\"Command\":\"A\"}\n")
	frames := s.Feed(buf)
	require.Len(t, frames, 1)

	copy(buf, "XXXXXXXXXXXXXXX")
	assert.Equal(t, `{"Command":"A"}`, string(frames[0]))
}

func TestEncodeFrame(t *testing.T) {
	assert.Equal(t, []byte("{}\n"), encodeFrame([]byte("{}")))
}

func TestDecodeFrame(t *testing.T) {
	resp, err := decodeFrame([]byte(`{"Command":"HelloResp","Idx":7,"Version":"3.14.0"}`))
	require.NoError(t, err)
	assert.Equal(t, KindHelloResp, resp.Kind)
	assert.Equal(t, 7, resp.Idx)

	// statistics come in an envelope with a non-numeric index
	resp, err = decodeFrame([]byte(`{"Command":"TransferredDataResp","Idx":"-","Data":"{\"SentData\":\"1 KB\",\"ReceivedData\":\"2 KB\"}"}`))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Idx)
	assert.JSONEq(t, `{"SentData":"1 KB","ReceivedData":"2 KB"}`, string(resp.Raw))

	resp, err = decodeFrame([]byte(`{"Command":"ErrorResp","Idx":3,"ErrorMessage":"failed"}`))
	require.NoError(t, err)
	msg, isErr := resp.ErrorMessage()
	assert.True(t, isErr)
	assert.Equal(t, "failed", msg)

	resp, err = decodeFrame([]byte(`{"Command":"SomethingNew","Idx":"12"}`))
	require.NoError(t, err)
	assert.Equal(t, KindUnknown, resp.Kind)
	assert.Equal(t, 12, resp.Idx)

	_, err = decodeFrame([]byte(`{"Idx":1}`))
	assert.Error(t, err)
	_, err = decodeFrame([]byte(`not a json`))
	var pe *ProtocolError
	assert.ErrorAs(t, err, &pe)
}
