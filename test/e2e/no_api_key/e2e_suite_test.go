package no_api_key

import (
	"path/filepath"

	//nolint:golint
	//nolint:revive
	. "github.com/onsi/ginkgo/v2"

	//nolint:golint
	//nolint:revive
	. "github.com/onsi/gomega"

	"github.com/foundriesio/impctl/test/e2e/utils"
)

var _ = Describe("Impctl CLI", func() {
	Context("without an API key", func() {
		var tc *utils.TestContext

		BeforeEach(func() {
			var err error
			By("creating context")
			tc, err = utils.NewTestContext(utils.ImpCLIBinName)
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			Expect(tc.Cleanup()).To(Succeed())
		})

		It("should successfully show the help", func() {
			_, err := tc.Ctl("help")
			Expect(err).To(BeNil())
		})

		It("should successfully logout", func() {
			_, err := tc.Ctl("logout")
			Expect(err).To(BeNil())
		})

		It("should fail listing devices without a key", func() {
			output, err := tc.Ctl("-L")
			Expect(err).To(HaveOccurred(), output)
			Expect(utils.ExitCode(err)).To(Equal(2))
			Expect(output).To(ContainSubstring("Please provide the Build API key"))
		})
	})

	Context("with an unreachable API", func() {
		var tc *utils.TestContext

		BeforeEach(func() {
			var err error
			tc, err = utils.NewTestContext(utils.ImpCLIBinName,
				"IMPCTL_API_KEY=dummy", "IMPCTL_API_URL=http://127.0.0.1:9/v4/")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			Expect(tc.Cleanup()).To(Succeed())
		})

		It("should require a command", func() {
			output, err := tc.Ctl()
			Expect(utils.ExitCode(err)).To(Equal(2), output)
			Expect(output).To(ContainSubstring("No command options specified"))
		})

		It("should reject more than one command", func() {
			output, err := tc.Ctl("-L", "-M", "--model=lamp")
			Expect(utils.ExitCode(err)).To(Equal(2), output)
		})

		It("should require a model name", func() {
			for _, args := range [][]string{{"-l"}, {"-M"}, {"-c", "--query=x"}} {
				output, err := tc.Ctl(args...)
				Expect(utils.ExitCode(err)).To(Equal(2), output)
				Expect(output).To(ContainSubstring("Model name is not specified"))
			}
		})

		It("should require existing code files", func() {
			missing := filepath.Join(tc.Dir, "missing.nut")
			output, err := tc.Ctl("-p", "--model=lamp", "--agent="+missing, "--device="+missing)
			Expect(utils.ExitCode(err)).To(Equal(3), output)
			Expect(output).To(ContainSubstring("Please specify a valid agent code file"))
		})

		It("should require an existing device ids file", func() {
			output, err := tc.Ctl("-m", "--model=lamp")
			Expect(utils.ExitCode(err)).To(Equal(3), output)
			Expect(output).To(ContainSubstring("Please specify file with device ids"))
		})

		It("should fail on unknown flags", func() {
			output, err := tc.Ctl("--bogus")
			Expect(utils.ExitCode(err)).To(Equal(2), output)
		})
	})
})
