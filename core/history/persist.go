package history

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Load appends every line of the history file at path to store. A missing
// file is not an error. Older lines are evicted if the file holds more lines
// than the store's capacity.
func Load(fs afero.Fs, path string, store *Store) error {
	fd, err := fs.Open(path)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return errors.Wrapf(err, "unable to open history file %s", path)
	}
	defer fd.Close()

	scanner := bufio.NewScanner(fd)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			store.Append(line)
		}
	}
	return errors.Wrapf(scanner.Err(), "unable to read history file %s", path)
}

// Save replaces the history file at path with the contents of store.
func Save(fs afero.Fs, path string, store *Store) error {
	fd, err := fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return errors.Wrapf(err, "unable to create history file %s", path)
	}

	w := bufio.NewWriter(fd)
	for _, line := range store.List() {
		fmt.Fprintln(w, line)
	}

	if err := w.Flush(); err != nil {
		fd.Close()
		return errors.Wrapf(err, "unable to write history file %s", path)
	}
	return fd.Close()
}
