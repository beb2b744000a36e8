package vision

import (
	"fmt"

	"github.com/huangsam/docname/internal/contract"
)

// documentPromptFormat asks for the line format ParseResponse expects.
const documentPromptFormat = `Analyze this document and provide:

1. Date (YYYY-MM-DD format, or NONE if not visible)
2. Brief description (2-4 words maximum - be concise!)
3. Document ID/Reference number (invoice number, reference, policy number, etc. - or NONE if not visible)

Original filename: %s

Consider original filename might contain hints.
If you consider original filename useful,
you may use it to infer missing details after careful consideration only if the document content is unclear.

Format your response EXACTLY as:
Date: [date]
Description: [short description]
ID: [document ID or NONE]

Examples:
Date: 2024-07-12
Description: Kwik Fit Invoice
ID: 147218533

Date: 2023-05-15
Description: Insurance Policy
ID: POL-2023-5678

Only extract what you actually see in the document.`

// receiptPromptFormat adds the store/merchant line used for receipt naming.
const receiptPromptFormat = `Analyze this receipt or invoice and provide:

1. Date (YYYY-MM-DD format, or NONE if not visible)
2. Store/Merchant name (the business that issued this receipt - be concise!)
3. Item description or transaction type (primary item purchased or service - or NONE if not visible)

Original filename: %s

Consider original filename might contain hints.
If you consider original filename useful,
you may use it to infer missing details after careful consideration only if the receipt is unclear.

Format your response EXACTLY as:
Date: [date]
Store: [store/merchant name]
Description: [item description or NONE]
ID: [document ID or NONE]

Examples:
Date: 2024-07-12
Store: Walmart
Description: Grocery
ID: 1234567890

Date: 2023-05-15
Store: Shell Gas Station
Description: Fuel Purchase
ID: NONE

Only extract what you actually see in the receipt.`

// buildPrompt returns the extraction prompt for the request mode.
func buildPrompt(req contract.AnalysisRequest) string {
	if req.Receipt {
		return fmt.Sprintf(receiptPromptFormat, req.Filename)
	}
	return fmt.Sprintf(documentPromptFormat, req.Filename)
}
