package speaker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type rampSource struct{ requested []int }

func (r *rampSource) GetSamples(count int) []uint8 {
	r.requested = append(r.requested, count)
	out := make([]uint8, count)
	for i := range out {
		out[i] = uint8(i)
	}
	return out
}

func (r *rampSource) Samples() []uint8 { return nil }

func TestSampleReaderFillsBuffer(t *testing.T) {
	src := &rampSource{}
	reader := &sampleReader{source: src}

	buf := make([]byte, 16)
	n, err := reader.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, uint8(15), buf[15])
	assert.Equal(t, []int{16}, src.requested)

	n, err = reader.Read(nil)
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, src.requested, 1)
}
