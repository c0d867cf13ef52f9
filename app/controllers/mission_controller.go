package controllers

import (
	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/gofiber/fiber/v2"
)

func GetMissions(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	missions, err := svc.Missions.ListMissions(c.UserContext(), userID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(missions)
}

func CreateMission(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	req := &models.CreateMissionRequest{}
	if err := parseBody(c, req); err != nil {
		return err
	}

	mission, err := svc.Missions.CreateMission(c.UserContext(), userID, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(mission)
}

// UpdateMissionProgress adds progress, or edits the mission when the body carries editMode.
func UpdateMissionProgress(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	missionID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	req := &models.ProgressRequest{}
	if err := parseBody(c, req); err != nil {
		return err
	}

	if req.EditMode {
		mission, err := svc.Missions.EditMission(c.UserContext(), user.ID, missionID, &req.EditMissionRequest)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"mission": mission, "progressOnly": true})
	}

	result, err := svc.Missions.UpdateProgress(c.UserContext(), user, missionID, req.Amount)
	if err != nil {
		return errorResponse(c, err)
	}
	if result.AlreadyCompleted {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message":          "Already completed",
			"alreadyCompleted": true,
			"mission":          result.Mission,
		})
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func EditMission(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	missionID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	req := &models.EditMissionRequest{}
	if err := parseBody(c, req); err != nil {
		return err
	}

	mission, err := svc.Missions.EditMission(c.UserContext(), userID, missionID, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(mission)
}

func DeleteMission(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	missionID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := svc.Missions.DeleteMission(c.UserContext(), userID, missionID); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Mission deleted"})
}

// NukeMissions deletes every mission the caller owns or shares.
func NukeMissions(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	n, err := svc.Missions.PurgeMissions(c.UserContext(), userID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Missions deleted", "deleted": n})
}

func RespondMissionInvite(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	req := &models.RespondInviteRequest{}
	if err := parseBody(c, req); err != nil {
		return err
	}

	mission, err := svc.Missions.RespondInvite(c.UserContext(), userID, req)
	if err != nil {
		return errorResponse(c, err)
	}
	if mission == nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Invitation rejected"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Invitation accepted", "mission": mission})
}
