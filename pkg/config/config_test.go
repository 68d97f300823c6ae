package config_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/studykit/studykit/pkg/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Configer", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("LoadConfig", func() {
		It("returns default config when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).NotTo(BeNil())
			Expect(cfg.Storage.DataDir).To(Equal("data"))
			Expect(cfg.Retrieval.TopK).To(Equal(4))
			Expect(cfg.Retrieval.ChunkSize).To(Equal(500))
			Expect(cfg.Retrieval.ChunkOverlap).To(Equal(80))
		})

		It("overrides defaults with values from the file", func() {
			raw := []byte("[retrieval]\ntop_k = 8\n\n[embedding]\nprovider = \"openai\"\n")
			Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), raw, 0o644)).To(Succeed())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Retrieval.TopK).To(Equal(8))
			Expect(cfg.Embedding.Provider).To(Equal("openai"))

			// Untouched fields still come from defaults.
			Expect(cfg.Retrieval.ChunkSize).To(Equal(500))
			Expect(cfg.Embedding.Model).NotTo(BeEmpty())
		})

		It("rejects malformed TOML", func() {
			raw := []byte("not [valid toml")
			Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), raw, 0o644)).To(Succeed())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SaveConfig", func() {
		It("round-trips a config through disk", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg := config.NewDefaultConfig()
			cfg.Retrieval.TopK = 12
			cfg.LLM.Model = "llama3.2"
			Expect(c.SaveConfig(cfg)).To(Succeed())

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Retrieval.TopK).To(Equal(12))
			Expect(loaded.LLM.Model).To(Equal("llama3.2"))
		})

		It("rejects a nil config", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SaveConfig(nil)).NotTo(Succeed())
		})
	})
})
