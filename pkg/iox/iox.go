package iox

import (
	"fmt"
	"io"
	"os"
)

// WriteStreamToFile creates dstFilename and copies src into it.
// If the copy fails, the partially written file is removed.
// An existing file is never overwritten.
func WriteStreamToFile(dstFilename string, src io.Reader) error {
	dstFile, err := os.OpenFile(dstFilename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0666)
	if err != nil {
		return err
	}
	_, err = io.Copy(dstFile, src)
	if closeErr := dstFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dstFilename)
		return err
	}
	return nil
}

// CopyFile copies srcFilename to a new file dstFilename
func CopyFile(dstFilename, srcFilename string) error {
	src, err := os.Open(srcFilename)
	if err != nil {
		return err
	}
	defer src.Close()
	if err := WriteStreamToFile(dstFilename, src); err != nil {
		return fmt.Errorf("Failed to copy '%v' to '%v': %w", srcFilename, dstFilename, err)
	}
	return nil
}

// WriteFileExclusive writes data to a new file. It fails if the file already exists.
func WriteFileExclusive(filename string, data []byte) error {
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0666)
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(filename)
	}
	return err
}
