package classify_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ruleclassify/engine/internal/batch"
	"github.com/ruleclassify/engine/pkg/rule"
	"github.com/ruleclassify/engine/pkg/ruleengine"
)

var _ = Describe("Rule Classification", func() {
	Context("Canada Sport rule", func() {
		engine := ruleengine.New([]rule.Rule{
			{
				Name:     "Canada Sport",
				Priority: 10,
				Result:   "Canada Sport",
				Conditions: []rule.Condition{
					{Part: rule.Host, Operator: rule.EndsWith, Value: ".ca"},
					{Part: rule.Path, Operator: rule.Contains, Value: "sport"},
				},
			},
		})

		It("matches a .ca host with sport in the path", func() {
			By("Evaluating a matching URL through the batch processor")
			results := batch.New(engine, 1).ProcessLines([]string{
				"https://shop.example.ca/category/sport/items",
			})

			Expect(results).To(HaveLen(1))
			Expect(results[0].Result).To(Equal("Canada Sport"))
		})

		It("does not match without sport in the path", func() {
			results := batch.New(engine, 1).ProcessLines([]string{
				"https://shop.example.ca/category/news",
			})

			Expect(results).To(HaveLen(1))
			Expect(results[0].Result).To(Equal(batch.NoMatchLabel))
		})
	})

	Context("Priority ordering", func() {
		engine := ruleengine.New([]rule.Rule{
			{
				Name:     "General CA",
				Priority: 1,
				Result:   "General CA",
				Conditions: []rule.Condition{
					{Part: rule.Host, Operator: rule.EndsWith, Value: ".ca"},
				},
			},
			{
				Name:     "Specific Sport CA",
				Priority: 10,
				Result:   "Specific Sport CA",
				Conditions: []rule.Condition{
					{Part: rule.Host, Operator: rule.EndsWith, Value: ".ca"},
					{Part: rule.Path, Operator: rule.Contains, Value: "sport"},
				},
			},
		})

		It("lets the higher-priority, more specific rule win", func() {
			results := batch.New(engine, 1).ProcessLines([]string{
				"https://shop.example.ca/sport/items",
			})

			Expect(results[0].Result).To(Equal("Specific Sport CA"))
		})
	})

	Context("Equal priority tie-break", func() {
		It("resolves ties by insertion order", func() {
			engine := ruleengine.New([]rule.Rule{
				{
					Name:     "First",
					Priority: 5,
					Result:   "First",
					Conditions: []rule.Condition{
						{Part: rule.Host, Operator: rule.EndsWith, Value: ".ca"},
					},
				},
				{
					Name:     "Second",
					Priority: 5,
					Result:   "Second",
					Conditions: []rule.Condition{
						{Part: rule.Host, Operator: rule.EndsWith, Value: ".ca"},
					},
				},
			})

			results := batch.New(engine, 1).ProcessLines([]string{"https://shop.example.ca/"})
			Expect(results[0].Result).To(Equal("First"))
		})
	})

	Context("Negated conditions", func() {
		engine := ruleengine.New([]rule.Rule{
			{
				Name:     "Not API",
				Priority: 1,
				Result:   "Not API",
				Conditions: []rule.Condition{
					{Part: rule.Path, Operator: rule.StartsWith, Value: "/api", Negated: true},
				},
			},
		})

		It("matches when the negated condition's value is absent", func() {
			results := batch.New(engine, 1).ProcessLines([]string{"https://example.com/public/page"})
			Expect(results[0].Result).To(Equal("Not API"))
		})

		It("does not match when the negated condition's value is present", func() {
			results := batch.New(engine, 1).ProcessLines([]string{"https://example.com/api/public/page"})
			Expect(results[0].Result).To(Equal(batch.NoMatchLabel))
		})
	})

	Context("Invalid input handling", func() {
		engine := ruleengine.New(nil)

		It("reports INVALID_URL for unparseable lines and skips blanks", func() {
			results, err := batch.New(engine, 2).ProcessReader(strings.NewReader(
				"://nohost\n\nhttps://example.com/\n",
			))

			Expect(err).ToNot(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].Result).To(Equal(batch.InvalidURLLabel))
			Expect(results[1].Result).To(Equal(batch.NoMatchLabel))
		})

		It("never matches when the rule list is empty", func() {
			results := batch.New(engine, 1).ProcessLines([]string{"https://example.com/"})
			Expect(results[0].Result).To(Equal(batch.NoMatchLabel))
		})
	})
})
