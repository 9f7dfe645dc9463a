package label

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/skrinja/internal/model"
	"github.com/erazemk/skrinja/internal/qr"
)

func TestFromContainerUsesCachedPayload(t *testing.T) {
	c := &model.Container{ID: "c1", Name: "Garage", QRCodeData: `{"containerId":"c1","version":"1.0","type":"container"}`}
	l := FromContainer(c)
	assert.Equal(t, c.QRCodeData, l.Payload)
	assert.Equal(t, "Garage", l.Name)
}

func TestFromContainerFallsBackToEncode(t *testing.T) {
	l := FromContainer(&model.Container{ID: "c2", Name: "Attic"})
	assert.Equal(t, qr.Encode("c2"), l.Payload)
}

func TestFromContainers(t *testing.T) {
	labels := FromContainers([]model.Container{{ID: "a"}, {ID: "b"}})
	require.Len(t, labels, 2)
	assert.Equal(t, "a", labels[0].ContainerID)
	assert.Equal(t, "b", labels[1].ContainerID)
}

func TestWriteHTML(t *testing.T) {
	ts, err := LoadTemplates()
	require.NoError(t, err)

	l := Label{ContainerID: "c1", Name: "Tools & <Parts>", Description: "Top shelf", Payload: qr.Encode("c1")}
	var buf bytes.Buffer
	require.NoError(t, ts.WriteHTML(&buf, l, 256))

	out := buf.String()
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "Tools &amp; &lt;Parts&gt;", "name must be escaped")
	assert.Contains(t, out, "Top shelf")
	assert.Contains(t, out, "ID: c1")
	assert.Contains(t, out, Instructions)
	assert.Contains(t, out, `src="data:image/png;base64,`)
	assert.NotContains(t, out, "ZgotmplZ")
	assert.Equal(t, 1, strings.Count(out, `class="label"`))
}

func TestWriteSheetHTML(t *testing.T) {
	ts, err := LoadTemplates()
	require.NoError(t, err)

	labels := []Label{
		{ContainerID: "a", Name: "A", Payload: qr.Encode("a")},
		{ContainerID: "b", Name: "B", Payload: qr.Encode("b")},
		{ContainerID: "c", Name: "C", Payload: qr.Encode("c")},
	}
	var buf bytes.Buffer
	require.NoError(t, ts.WriteSheetHTML(&buf, labels, 128))

	out := buf.String()
	assert.Contains(t, out, `class="sheet"`)
	assert.Equal(t, 3, strings.Count(out, `class="label"`))
}

func TestRenderUnknownTemplate(t *testing.T) {
	ts, err := LoadTemplates()
	require.NoError(t, err)
	assert.Error(t, ts.Render(&bytes.Buffer{}, "missing.html", nil))
}

func TestPDF(t *testing.T) {
	data, err := PDF(Label{ContainerID: "c1", Name: "Garage", Description: "Left wall", Payload: qr.Encode("c1")})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "expected PDF header")
}

func TestSheet(t *testing.T) {
	var labels []Label
	for _, id := range []string{"a", "b", "c", "d"} {
		labels = append(labels, Label{ContainerID: id, Name: strings.ToUpper(id), Payload: qr.Encode(id)})
	}
	data, err := Sheet(labels)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, err = Sheet(nil)
	assert.Error(t, err)
}
