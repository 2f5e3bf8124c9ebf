package service

import "debate_backend/internal/model"

// FAQ 静态内容
var faqItems = []model.FAQItem{
	{Question: "How do I participate in a debate?", Answer: "Click on any debate topic to view and reply to questions and answers."},
	{Question: "Can I report inappropriate content?", Answer: "Yes, please use the Contact Us page to report any issues."},
	{Question: "How many times can I vote a question or an answer?", Answer: "Every vote is counted. Votes are not limited per visitor."},
}

func FAQ() []model.FAQItem {
	out := make([]model.FAQItem, len(faqItems))
	copy(out, faqItems)
	return out
}
