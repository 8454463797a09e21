package adapters

import (
	"os/exec"
	"runtime"
)

// FileOpener hands a file to the platform's default application
type FileOpener struct {
	goos string
}

// NewFileOpener creates an opener for the running platform
func NewFileOpener() *FileOpener {
	return &FileOpener{goos: runtime.GOOS}
}

// Command returns the program and arguments that open path
func (o *FileOpener) Command(path string) (string, []string) {
	switch o.goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "cmd", []string{"/c", "start", "", path}
	default:
		return "xdg-open", []string{path}
	}
}

// Open launches the default application without waiting for it to exit
func (o *FileOpener) Open(path string) error {
	name, args := o.Command(path)
	cmd := exec.Command(name, args...)
	return cmd.Start()
}
