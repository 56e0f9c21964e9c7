package binalyzer

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleTemplate = `<template name="root"><field name="f" size="4"/></template>`

func TestFromFile_ParsesAndBindsData(t *testing.T) {
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "layout.xml")
	require.NoError(t, os.WriteFile(templatePath, []byte(sampleTemplate), 0o644))

	dataPath := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(dataPath, make([]byte, 4), 0o644))

	b, err := FromFile(templatePath, dataPath)
	require.NoError(t, err)

	size, err := b.Root().Size()
	require.NoError(t, err)
	require.Equal(t, uint64(4), size)
}

func TestFromFile_MissingTemplateErrors(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.xml"), "")
	require.Error(t, err)
}

func TestFromURL_ParsesTemplate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleTemplate))
	}))
	defer srv.Close()

	b, err := FromURL(srv.URL, "")
	require.NoError(t, err)
	require.Equal(t, "root", b.Root().Name())
}
