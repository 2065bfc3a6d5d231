//go:build !unix

package server

import "syscall"

// reuseAddrControl is a no-op outside unix-family targets; SO_REUSEADDR
// tuning via golang.org/x/sys/unix has no equivalent wired here.
func reuseAddrControl(network, address string, c syscall.RawConn) error {
	return nil
}
