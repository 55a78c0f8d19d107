//go:build !linux && !freebsd

package exec

import "syscall"

func defSysProcAttr() *syscall.SysProcAttr {
	return nil
}
