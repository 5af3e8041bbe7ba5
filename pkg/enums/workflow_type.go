package enums

import "slices"

// WorkflowType is the discriminator stored in workflow_config.type.
type WorkflowType string

const (
	WorkflowTypeDataProcessing WorkflowType = "data_processing"
	WorkflowTypeNotification   WorkflowType = "notification"
)

var workflowTypes = []WorkflowType{
	WorkflowTypeDataProcessing,
	WorkflowTypeNotification,
}

func (w WorkflowType) String() string { return string(w) }

func (w WorkflowType) IsValid() bool {
	return slices.Contains(workflowTypes, w)
}

func ParseWorkflowType(value string) (WorkflowType, error) {
	return parse("workflow type", value, workflowTypes)
}
