package transport

// AssignRequest is the body of the bulk-assignment endpoint.
type AssignRequest struct {
	HandlerID int64    `json:"handlerId" validate:"required,min=1"`
	LeadIDs   []string `json:"leadIds" validate:"required,min=1,max=500,dive,required"`
}
