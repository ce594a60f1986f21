// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cairnfs/cairn/internal/block"
	"github.com/cairnfs/cairn/internal/carve"
	"github.com/cairnfs/cairn/internal/fuse"
	"github.com/cairnfs/cairn/internal/logger"
)

func DefineMountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "mount <device> <mountpoint>",
		Short:        "Mount a previously recovered-file index as a read-only FUSE filesystem",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         RunMount,
	}

	cmd.Flags().StringP("index", "i", "", "path to the recovered-file index written by carve (required)")
	cmd.Flags().String("log-level", "INFO", "log level: DEBUG, INFO, WARN, ERROR")
	cmd.MarkFlagRequired("index")

	return cmd
}

func RunMount(cmd *cobra.Command, args []string) error {
	devicePath := args[0]
	mountpoint := args[1]
	indexPath, _ := cmd.Flags().GetString("index")
	logLevel, _ := cmd.Flags().GetString("log-level")

	log := logger.New(os.Stderr, logger.ParseLevel(logLevel))

	entries, err := readIndex(indexPath)
	if err != nil {
		return fmt.Errorf("read index: %w", err)
	}
	log.Infof("loaded %d recovered files from %s", len(entries), indexPath)

	source, err := block.Open(devicePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", devicePath, err)
	}
	defer source.Close()

	ra := carve.NewSourceReaderAt(source)

	fileEntries := make([]fuse.FileEntry, len(entries))
	for i, e := range entries {
		fileEntries[i] = fuse.FileEntry{Name: e.Name, Offset: e.Offset, Size: e.Size}
	}

	log.Infof("mounting %d files at %s", len(fileEntries), mountpoint)
	return fuse.Mount(mountpoint, ra, fileEntries)
}

func readIndex(path string) ([]indexEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []indexEntry
	if err := json.NewDecoder(f).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}
