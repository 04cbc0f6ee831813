package descriptions

// Tool descriptions with practical examples and use cases

const (
	FormExtractFileDescription = `Extract the interactive form-field structure of a PDF document.

**When to use:** Need the machine-readable skeleton of a fillable form: field identifiers, types, page placement, nearby caption text, and choice options.

**Why it's useful:** Turns an AcroForm into a stable, ordered field inventory that downstream tools can store, index, or compare across revisions.

**Examples:**
• Inventory a form: "Extract all fields from tax-return-2024.pdf"
• Audit field naming: "List the field identifiers in onboarding-form.pdf"
• Check option lists: "What choices does the country dropdown in visa-application.pdf offer?"

**Common workflows:**
1. Form Intake: Extract structure → Review labels and types → Build a filling template
2. Version Tracking: Extract each revision → Persist results → Compare later with form_compare_files

**Best practices:** A valid document with zero fields is reported as such, not as an error; check the field count before assuming the form is fillable.`

	FormCompareFilesDescription = `Compare the form-field structure of two versions of a PDF document.

**When to use:** A form was revised and you need to know which fields were removed, added, or modified, and by how much.

**Why it's useful:** Matches fields by identifier and classifies every difference in type, caption, options, position, and page, plus a document-level modification percentage.

**Examples:**
• Release review: "Compare application-v3.pdf against application-v4.pdf"
• Regression check: "Did regenerating enrollment.pdf move any fields?"
• Vendor audit: "What changed between the vendor's January and June W-9 templates?"

**Common workflows:**
1. Change Review: Compare versions → Read the change list → Approve or reject the revision
2. Pipeline Gate: Compare generated output against the approved baseline → Fail on unexpected changes

**Best practices:** Field identifiers are the join key; renamed fields appear as a removal plus an addition, not a modification.`

	FormExportXLSXDescription = `Compare two PDF versions and write the change report as an XLSX workbook.

**When to use:** Reviewers want the comparison in a spreadsheet: summary metrics on one sheet, per-field changes on another.

**Why it's useful:** Produces a shareable artifact for non-technical stakeholders without losing the attribute-level change flags.

**Examples:**
• Stakeholder report: "Export the diff of consent-v1.pdf vs consent-v2.pdf to review.xlsx"
• Audit trail: "Write a workbook for every form revision in this quarter's release"

**Common workflows:**
1. Review Handoff: Compare → Export XLSX → Attach to the change ticket
2. Batch Reporting: Compare each pair → Export per-pair workbooks → Archive

**Best practices:** The output path is overwritten if it exists; write into a per-comparison directory when batching.`

	FormServerInfoDescription = `Get server information, available tools, and comparison settings.

**When to use:** Verify connectivity, discover the tool surface, or confirm the active position tolerance and label normalization settings.

**Examples:**
• Health check: "Is the form comparison server responding?"
• Settings audit: "What position tolerance is this server comparing with?"

**Best practices:** Run once at session start so downstream prompts know which tools exist and how comparisons are configured.`
)
