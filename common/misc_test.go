package common_test

import (
	"fiji/common"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/sony/sonyflake"
)

var _ = Describe("Misc", func() {
	Describe("NextId", func() {
		It("should generate distinct positive ids", func() {
			idWorker := sonyflake.NewSonyflake(sonyflake.Settings{})
			a := common.NextId(idWorker)
			b := common.NextId(idWorker)
			Expect(a > 0).To(BeTrue())
			Expect(b > 0).To(BeTrue())
			Expect(a).ToNot(Equal(b))
		})
	})

	Describe("GetServiceName", func() {
		It("should return the fixed service name", func() {
			Expect(common.GetServiceName()).To(Equal("fiji"))
		})
	})

	Describe("HttpStatusIsSuccess", func() {
		It("should accept only 2xx statuses", func() {
			Expect(common.HttpStatusIsSuccess(200)).To(BeTrue())
			Expect(common.HttpStatusIsSuccess(204)).To(BeTrue())
			Expect(common.HttpStatusIsSuccess(299)).To(BeTrue())
			Expect(common.HttpStatusIsSuccess(199)).To(BeFalse())
			Expect(common.HttpStatusIsSuccess(300)).To(BeFalse())
			Expect(common.HttpStatusIsSuccess(0)).To(BeFalse())
		})
	})

	Describe("ErrHttpInvoke", func() {
		It("should render request and response details", func() {
			err := common.ErrHttpInvoke{Method: "POST", Url: "http://example.com/v1/things",
				ReqBody: `{"a":1}`, StatusCode: 500, StatusText: "500 Internal Server Error",
				RespBody: "boom"}
			Expect(err.Error()).To(Equal("http invoke failed. request POST http://example.com/v1/things, " +
				"body: '{\"a\":1}'. response 500 500 Internal Server Error, body: 'boom'"))
		})
	})
})
