// Package mmap provides read-only memory-mapped file access.
//
// Index files are parsed front to back, so callers typically map a file,
// advise AccessSequential and read it through io.ReaderAt:
//
//	m, err := mmap.Open("corpus.arff")
//	if err != nil { ... }
//	defer m.Close()
//	_ = m.Advise(mmap.AccessSequential)
//	r := io.NewSectionReader(m, 0, int64(m.Size()))
//
// Unix uses mmap(2) and madvise(2); Windows uses CreateFileMapping and
// MapViewOfFile, where Advise is a no-op.
package mmap
