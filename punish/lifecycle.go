package punish

import (
	"fmt"
	"log"
	"moderation-bot/model"
	"moderation-bot/utils/database/sanctions"
)

// ladderStripper is implemented by role managers that can clear the whole
// escalation ladder at once.
type ladderStripper interface {
	RemoveEscalationRoles(userID string)
}

// Void reverses a sanction explicitly. The record is kept with status void;
// sanctions are never hard-deleted.
func (o *Orchestrator) Void(sanctionID int64) error {
	record, err := sanctions.GetSanctionByID(o.db, sanctionID)
	if err != nil {
		return fmt.Errorf("failed to load sanction %d: %w", sanctionID, err)
	}

	if err := sanctions.UpdateStatus(o.db, sanctionID, model.SanctionStatusVoid); err != nil {
		return err
	}

	o.stripLadderIfEscalating(record)
	log.Printf("[Punish] Sanction %d (case %s) voided", sanctionID, record.CaseRef)
	return nil
}

// Appeal marks a sanction as disputed and clears its escalation roles so the
// user is not penalized while the dispute is reviewed.
func (o *Orchestrator) Appeal(sanctionID int64) error {
	record, err := sanctions.GetSanctionByID(o.db, sanctionID)
	if err != nil {
		return fmt.Errorf("failed to load sanction %d: %w", sanctionID, err)
	}

	if err := sanctions.UpdateStatus(o.db, sanctionID, model.SanctionStatusAppealed); err != nil {
		return err
	}

	o.stripLadderIfEscalating(record)
	log.Printf("[Punish] Sanction %d (case %s) appealed", sanctionID, record.CaseRef)
	return nil
}

func (o *Orchestrator) stripLadderIfEscalating(record *model.Sanction) {
	if record.Category != model.CategoryEscalating {
		return
	}
	if stripper, ok := o.roles.(ladderStripper); ok {
		stripper.RemoveEscalationRoles(record.UserID)
	}
}
