//go:build !windows

package cli_test

import (
	"os"
	"syscall"
	"time"

	"github.com/mgnsk/esm-devserver/internal/cli"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("NotifyTermination", func() {
	It("relays SIGTERM instead of dying", func() {
		signals, stop := cli.NotifyTermination()
		defer stop()

		Expect(syscall.Kill(syscall.Getpid(), syscall.SIGTERM)).To(Succeed())

		var sig os.Signal
		Eventually(signals, time.Second).Should(Receive(&sig))
		Expect(sig).To(Equal(syscall.SIGTERM))
	})
})
