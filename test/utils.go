package test

import (
	"io/ioutil"
	"os"
	"path"
)

var (
	// TestKeys - test data
	TestKeys [][]byte = [][]byte{[]byte("Key1"), []byte("Key2"), []byte("Key3"), []byte("Key4"), []byte("Key5")}

	// TestValues - test data
	TestValues [][]byte = [][]byte{[]byte("Value1"), []byte("Value2"), []byte("Value3"), []byte("Value4"), []byte("Value5")}

	// TestOrderedKeys - keys of every tail length in increasing byte-wise order.
	// Covers prefixes, trailing zero bytes and bytes with the high bit set.
	TestOrderedKeys [][]byte = [][]byte{
		{},
		{0x00},
		{0x00, 0x00},
		{0x00, 0x00, 0x00, 0x01},
		{0x00, 0x00, 0x00, 0x02},
		{0x01},
		{0x01, 0x00},
		{0x01, 0x00, 0x00, 0x00},
		{0x01, 0x00, 0x00, 0x00, 0x00},
		{0x12, 0x34, 0x56, 0x78, 0x9a},
		{0x12, 0x34, 0x56, 0x78, 0x9b},
		{0x7f, 0xff, 0xff},
		{0x80},
		{0xab, 0xcd},
		{0xab, 0xcd, 0xef},
		{0xff},
		{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
	}

	// TestDirectory is the scratch directory of the tests.
	TestDirectory = path.Join(os.TempDir(), "orderedkvtest")
)

// CreateTestDirectory creates a test directory for running tests.
func CreateTestDirectory(testDirectory string) {
	os.MkdirAll(testDirectory, os.ModePerm)
}

// CleanupTestDirectory cleans up the test directory.
func CleanupTestDirectory(testDirectory string) error {
	dir, err := ioutil.ReadDir(testDirectory)
	if err != nil {
		return err
	}
	for _, d := range dir {
		os.RemoveAll(path.Join([]string{testDirectory, d.Name()}...))
	}
	return nil
}
