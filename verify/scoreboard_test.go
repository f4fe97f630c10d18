package verify

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recorderStub struct {
	tables  []string
	entries map[string][]any
}

func newRecorderStub() *recorderStub {
	return &recorderStub{entries: make(map[string][]any)}
}

func (r *recorderStub) CreateTable(tableName string, _ any) {
	r.tables = append(r.tables, tableName)
}

func (r *recorderStub) InsertData(tableName string, entry any) {
	r.entries[tableName] = append(r.entries[tableName], entry)
}

func (r *recorderStub) ListTables() []string {
	return r.tables
}

func (r *recorderStub) Flush() {}

func (r *recorderStub) Close() {}

var _ = Describe("Scoreboard", func() {
	var (
		out *bytes.Buffer
		sb  *Scoreboard
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		sb = NewScoreboard().WithWriter(out)
	})

	It("should count a matching check as passed", func() {
		ok := sb.Check("roundtrip", 0xCA, 0xCA)

		Expect(ok).To(BeTrue())
		Expect(sb.Passed()).To(Equal(1))
		Expect(sb.Failed()).To(Equal(0))
		Expect(out.String()).To(
			Equal("  PASS roundtrip: expected 0xCA, got 0xCA\n"))
	})

	It("should count a mismatch as failed without aborting", func() {
		ok := sb.Check("roundtrip", 0xCA, 0x53)

		Expect(ok).To(BeFalse())
		Expect(sb.Passed()).To(Equal(0))
		Expect(sb.Failed()).To(Equal(1))
		Expect(out.String()).To(
			Equal("  FAIL roundtrip: expected 0xCA, got 0x53\n"))
	})

	It("should compare only the masked bits", func() {
		ok := sb.CheckMasked("low byte", 0xFFFFFFCA, 0x000000CA, 0xFF)

		Expect(ok).To(BeTrue())
		Expect(sb.Passed()).To(Equal(1))
	})

	It("should accumulate counters across checks", func() {
		sb.Check("a", 1, 1)
		sb.Check("b", 2, 3)
		sb.Check("c", 4, 4)

		Expect(sb.Passed()).To(Equal(2))
		Expect(sb.Failed()).To(Equal(1))
	})

	It("should write the final counter line", func() {
		sb.Check("a", 1, 1)
		sb.Check("b", 2, 3)
		out.Reset()

		sb.Summary()

		Expect(out.String()).To(Equal("Results: 1 passed, 1 failed\n"))
	})

	It("should exit zero only when nothing failed", func() {
		sb.Check("a", 1, 1)
		Expect(sb.ExitCode()).To(Equal(0))

		sb.Check("b", 1, 2)
		Expect(sb.ExitCode()).To(Equal(1))
	})

	It("should exit zero when no checks ran", func() {
		Expect(sb.ExitCode()).To(Equal(0))
	})

	Context("with a data recorder attached", func() {
		var rec *recorderStub

		BeforeEach(func() {
			rec = newRecorderStub()
			sb.WithRecorder(rec)
		})

		It("should create the check results table", func() {
			Expect(rec.ListTables()).To(ConsistOf("check_results"))
		})

		It("should store one record per check", func() {
			sb.Check("pass", 0xBEEF, 0xBEEF)
			sb.CheckMasked("fail", 0x1, 0x2, 0xFF)

			records := rec.entries["check_results"]
			Expect(records).To(HaveLen(2))
			Expect(records[0]).To(Equal(CheckRecord{
				Name:     "pass",
				Expected: 0xBEEF,
				Actual:   0xBEEF,
				Mask:     MaskAll,
				Passed:   true,
			}))
			Expect(records[1]).To(Equal(CheckRecord{
				Name:     "fail",
				Expected: 0x1,
				Actual:   0x2,
				Mask:     0xFF,
				Passed:   false,
			}))
		})
	})
})
