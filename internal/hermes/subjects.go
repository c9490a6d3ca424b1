package hermes

const (
	SubjectProductSubmit = "playbook.product.submit"
	SubjectStats         = "playbook.stats"

	StreamName     = "PLAYBOOK_EVENTS"
	StreamSubjects = "playbook.>"
	StreamMaxAge   = "720h" // 30 days
)

// Product lifecycle subjects
func SubjectProductCreated(productID string) string   { return "playbook.product." + productID + ".created" }
func SubjectProductUpdated(productID string) string   { return "playbook.product." + productID + ".updated" }
func SubjectProductEvaluated(productID string) string { return "playbook.product." + productID + ".evaluated" }
func SubjectProductDeleted(productID string) string   { return "playbook.product." + productID + ".deleted" }
