package apt

import "fmt"

// MsgID is the 16-bit protocol-level message identifier carried in header
// bytes 0-1. It distinguishes command and response types (the protocol
// documentation calls these MGMSG_* codes).
type MsgID uint16

// Generic module and hardware messages supported by every APT unit.
const (
	MsgHWDisconnect      MsgID = 0x0002
	MsgHWReqInfo         MsgID = 0x0005
	MsgHWGetInfo         MsgID = 0x0006
	MsgHWStartUpdateMsgs MsgID = 0x0011
	MsgHWStopUpdateMsgs  MsgID = 0x0012

	MsgModSetChanEnableState MsgID = 0x0210
	MsgModReqChanEnableState MsgID = 0x0211
	MsgModGetChanEnableState MsgID = 0x0212
	MsgModIdentify           MsgID = 0x0223
)

// Motor control messages (the subset the session layer and tests exercise;
// drivers define the rest of their vocabulary themselves).
const (
	MsgMotSetPosCounter MsgID = 0x0410
	MsgMotReqPosCounter MsgID = 0x0411
	MsgMotGetPosCounter MsgID = 0x0412
	MsgMotSetVelParams  MsgID = 0x0413
	MsgMotReqVelParams  MsgID = 0x0414
	MsgMotGetVelParams  MsgID = 0x0415

	MsgMotMoveHome      MsgID = 0x0443
	MsgMotMoveHomed     MsgID = 0x0444
	MsgMotMoveRelative  MsgID = 0x0448
	MsgMotMoveAbsolute  MsgID = 0x0453
	MsgMotMoveCompleted MsgID = 0x0464
	MsgMotMoveStop      MsgID = 0x0465
	MsgMotMoveStopped   MsgID = 0x0466

	MsgMotReqStatusUpdate   MsgID = 0x0480
	MsgMotGetStatusUpdate   MsgID = 0x0481
	MsgMotReqDCStatusUpdate MsgID = 0x0490
	MsgMotGetDCStatusUpdate MsgID = 0x0491
	MsgMotAckDCStatusUpdate MsgID = 0x0492
)

var msgIDNames = map[MsgID]string{
	MsgHWDisconnect:          "HW_DISCONNECT",
	MsgHWReqInfo:             "HW_REQ_INFO",
	MsgHWGetInfo:             "HW_GET_INFO",
	MsgHWStartUpdateMsgs:     "HW_START_UPDATEMSGS",
	MsgHWStopUpdateMsgs:      "HW_STOP_UPDATEMSGS",
	MsgModSetChanEnableState: "MOD_SET_CHANENABLESTATE",
	MsgModReqChanEnableState: "MOD_REQ_CHANENABLESTATE",
	MsgModGetChanEnableState: "MOD_GET_CHANENABLESTATE",
	MsgModIdentify:           "MOD_IDENTIFY",
	MsgMotSetPosCounter:      "MOT_SET_POSCOUNTER",
	MsgMotReqPosCounter:      "MOT_REQ_POSCOUNTER",
	MsgMotGetPosCounter:      "MOT_GET_POSCOUNTER",
	MsgMotSetVelParams:       "MOT_SET_VELPARAMS",
	MsgMotReqVelParams:       "MOT_REQ_VELPARAMS",
	MsgMotGetVelParams:       "MOT_GET_VELPARAMS",
	MsgMotMoveHome:           "MOT_MOVE_HOME",
	MsgMotMoveHomed:          "MOT_MOVE_HOMED",
	MsgMotMoveRelative:       "MOT_MOVE_RELATIVE",
	MsgMotMoveAbsolute:       "MOT_MOVE_ABSOLUTE",
	MsgMotMoveCompleted:      "MOT_MOVE_COMPLETED",
	MsgMotMoveStop:           "MOT_MOVE_STOP",
	MsgMotMoveStopped:        "MOT_MOVE_STOPPED",
	MsgMotReqStatusUpdate:    "MOT_REQ_STATUSUPDATE",
	MsgMotGetStatusUpdate:    "MOT_GET_STATUSUPDATE",
	MsgMotReqDCStatusUpdate:  "MOT_REQ_DCSTATUSUPDATE",
	MsgMotGetDCStatusUpdate:  "MOT_GET_DCSTATUSUPDATE",
	MsgMotAckDCStatusUpdate:  "MOT_ACK_DCSTATUSUPDATE",
}

// String returns the protocol mnemonic for known message IDs, or the hex
// value for unknown ones.
func (id MsgID) String() string {
	if name, ok := msgIDNames[id]; ok {
		return fmt.Sprintf("%s(0x%04X)", name, uint16(id))
	}
	return fmt.Sprintf("0x%04X", uint16(id))
}
