// Command consolebridge is a host-side development tool: it puts the
// operator's terminal into raw mode and bridges it byte-for-byte to the
// character device QEMU exposes for the kernel's SBI console (spec.md §6,
// "SBI (firmware) contract consumed... console put/get character"), the
// same role internal/tty plays for a simulated machine, adapted here to
// talk to a real serial device file instead of driving an in-process VM.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "consolebridge:", err)
		os.Exit(1)
	}
}

func run() error {
	devPath := flag.String("dev", "/dev/ttyUSB0", "character device the kernel's SBI console is attached to")
	flag.Parse()

	dev, err := os.OpenFile(*devPath, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", *devPath, err)
	}
	defer dev.Close()

	if err := setRawTermios(int(dev.Fd())); err != nil {
		return fmt.Errorf("configure %s: %w", *devPath, err)
	}

	inFD := int(os.Stdin.Fd())
	if !term.IsTerminal(inFD) {
		return errors.New("stdin is not a terminal")
	}

	saved, err := term.MakeRaw(inFD)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	defer term.Restore(inFD, saved)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		term.Restore(inFD, saved)
		os.Exit(0)
	}()

	errCh := make(chan error, 2)
	go func() { _, err := io.Copy(dev, os.Stdin); errCh <- err }()
	go func() { _, err := io.Copy(os.Stdout, dev); errCh <- err }()

	return <-errCh
}

// setRawTermios configures the serial device for 8N1 raw I/O with no flow
// control, the configuration QEMU's chardev expects on the host end of a
// pty/tty pair (mirrors internal/tty's own ioctl-based termios setup).
func setRawTermios(fd int) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}

	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB
	t.Cflag |= unix.CS8
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0

	return unix.IoctlSetTermios(fd, unix.TCSETS, t)
}
