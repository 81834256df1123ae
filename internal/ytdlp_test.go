package internal

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractParsesPairsInOrder(t *testing.T) {
	dumper := &fakeDumper{output: "https://www.youtube.com/watch?v=aaaaaaaaaaa\nFirst video\n" +
		"https://www.youtube.com/watch?v=bbbbbbbbbbb&list=PL1\nSecond video\n" +
		"https://youtu.be/ccccccccccc\nThird video\n"}
	extractor := NewExtractor(ExtractorConfig{TempDir: t.TempDir()}, dumper)

	videos, err := extractor.Extract(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	require.NoError(t, err)

	assert.Equal(t, []VideoRecord{
		{Title: "First video", ID: "aaaaaaaaaaa", URL: "https://www.youtube.com/watch?v=aaaaaaaaaaa"},
		{Title: "Second video", ID: "bbbbbbbbbbb", URL: "https://www.youtube.com/watch?v=bbbbbbbbbbb&list=PL1"},
		{Title: "Third video", ID: "ccccccccccc", URL: "https://youtu.be/ccccccccccc"},
	}, videos)
}

func TestExtractRemovesTempFile(t *testing.T) {
	t.Run("after success", func(t *testing.T) {
		dumper := &fakeDumper{output: "https://youtu.be/aaaaaaaaaaa\nOnly\n"}
		extractor := NewExtractor(ExtractorConfig{TempDir: t.TempDir()}, dumper)

		_, err := extractor.Extract(context.Background(), "https://www.youtube.com/playlist?list=PL1")
		require.NoError(t, err)

		require.NotEmpty(t, dumper.outputFile)
		assert.NoFileExists(t, dumper.outputFile)
	})

	t.Run("after failure", func(t *testing.T) {
		dumper := &fakeDumper{err: errors.New("exit status 1"), stderr: "ERROR: boom"}
		extractor := NewExtractor(ExtractorConfig{TempDir: t.TempDir()}, dumper)

		_, err := extractor.Extract(context.Background(), "https://www.youtube.com/playlist?list=PL1")
		require.Error(t, err)

		require.NotEmpty(t, dumper.outputFile)
		assert.NoFileExists(t, dumper.outputFile)
	})
}

func TestExtractFailureCarriesStderr(t *testing.T) {
	dumper := &fakeDumper{err: errors.New("exit status 1"), stderr: "ERROR: [youtube:tab] PLnope: The playlist does not exist."}
	extractor := NewExtractor(ExtractorConfig{TempDir: t.TempDir()}, dumper)

	videos, err := extractor.Extract(context.Background(), "https://www.youtube.com/playlist?list=PLnope")

	assert.Nil(t, videos)
	var toolErr *ExternalToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Contains(t, err.Error(), "The playlist does not exist.")
	assert.True(t, IsClientError(err))
}

func TestExtractFailureWithoutStderrUsesError(t *testing.T) {
	dumper := &fakeDumper{err: errors.New("executable file not found in $PATH")}
	extractor := NewExtractor(ExtractorConfig{TempDir: t.TempDir()}, dumper)

	_, err := extractor.Extract(context.Background(), "https://www.youtube.com/playlist?list=PL1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "executable file not found")
}

func TestExtractCreatesMissingTempDir(t *testing.T) {
	tempDir := t.TempDir() + "/nested/tmp"
	extractor := NewExtractor(ExtractorConfig{TempDir: tempDir}, &fakeDumper{output: ""})

	videos, err := extractor.Extract(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	require.NoError(t, err)

	assert.Empty(t, videos)
	info, err := os.Stat(tempDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestParsePlaylistOutput(t *testing.T) {
	t.Run("empty output", func(t *testing.T) {
		videos := ParsePlaylistOutput("")
		assert.NotNil(t, videos)
		assert.Empty(t, videos)
	})

	t.Run("trailing URL without title is dropped", func(t *testing.T) {
		videos := ParsePlaylistOutput("https://youtu.be/aaaaaaaaaaa\nFirst\nhttps://youtu.be/bbbbbbbbbbb\n")
		require.Len(t, videos, 1)
		assert.Equal(t, "First", videos[0].Title)
	})

	t.Run("blank title on the last video is kept", func(t *testing.T) {
		videos := ParsePlaylistOutput("https://youtu.be/aaaaaaaaaaa\nFirst\nhttps://youtu.be/bbbbbbbbbbb\n\n")
		require.Len(t, videos, 2)
		assert.Equal(t, VideoRecord{Title: "", ID: "bbbbbbbbbbb", URL: "https://youtu.be/bbbbbbbbbbb"}, videos[1])
	})

	t.Run("windows line endings", func(t *testing.T) {
		videos := ParsePlaylistOutput("https://youtu.be/aaaaaaaaaaa\r\nFirst\r\n")
		require.Len(t, videos, 1)
		assert.Equal(t, VideoRecord{Title: "First", ID: "aaaaaaaaaaa", URL: "https://youtu.be/aaaaaaaaaaa"}, videos[0])
	})
}

func TestVideoIDFromURL(t *testing.T) {
	assert.Equal(t, "aaaaaaaaaaa", VideoIDFromURL("https://www.youtube.com/watch?v=aaaaaaaaaaa"))
	assert.Equal(t, "aaaaaaaaaaa", VideoIDFromURL("https://www.youtube.com/watch?v=aaaaaaaaaaa&index=2"))
	assert.Equal(t, "ccccccccccc", VideoIDFromURL("https://youtu.be/ccccccccccc"))
	assert.Equal(t, "ddddddddddd", VideoIDFromURL("https://www.youtube.com/shorts/ddddddddddd"))
}

func TestPlaylistIDFromURL(t *testing.T) {
	assert.Equal(t, "PL123", PlaylistIDFromURL("https://www.youtube.com/playlist?list=PL123"))
	assert.Equal(t, "PL123", PlaylistIDFromURL("https://www.youtube.com/watch?v=x&list=PL123&index=4"))
	assert.Equal(t, "playlist", PlaylistIDFromURL("https://www.youtube.com/@channel/videos"))
	assert.Equal(t, "playlist", PlaylistIDFromURL("https://www.youtube.com/playlist?list="))
}

func TestExternalToolErrorMessage(t *testing.T) {
	assert.Equal(t, "yt-dlp error: bad", (&ExternalToolError{Stderr: "bad", Err: errors.New("exit 1")}).Error())
	assert.Equal(t, "Error extracting playlist: nope", (&ExternalToolError{Err: errors.New("nope")}).Error())
}
