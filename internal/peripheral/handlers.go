package peripheral

import (
	"context"
	"errors"

	"github.com/go-ble/ble"
	"github.com/sirupsen/logrus"
	"github.com/srg/blonboard/internal/onboarding"
)

// attInvalidRequest is the first application error code of the ATT error range.
const attInvalidRequest ble.ATTError = 0x80

// attStatus maps an onboarding error to the ATT error returned to the central
func attStatus(err error) ble.ATTError {
	switch {
	case err == nil:
		return ble.ErrSuccess
	case errors.Is(err, onboarding.ErrInvalidOffset):
		return ble.ErrInvalidOffset
	case errors.Is(err, onboarding.ErrInvalidRequest):
		return attInvalidRequest
	default:
		return ble.ErrUnlikely
	}
}

// remoteAddr returns the address of the central behind req, or "" when unknown
func remoteAddr(req ble.Request) string {
	if req == nil {
		return ""
	}
	conn := req.Conn()
	if conn == nil {
		return ""
	}
	addr := conn.RemoteAddr()
	if addr == nil {
		return ""
	}
	return addr.String()
}

func (p *Provider) readHandler(ch onboarding.Characteristic) ble.ReadHandler {
	return ble.ReadHandlerFunc(func(req ble.Request, rsp ble.ResponseWriter) {
		remote := remoteAddr(req)
		p.clients.RecordRead(remote)
		log := p.logger.WithFields(logrus.Fields{
			"characteristic": ch.Name,
			"remote":         remote,
			"offset":         req.Offset(),
		})

		value, err := p.readValue(ch, remote, req.Offset())
		if err == nil {
			value, err = onboarding.SliceForOffset(value, req.Offset())
		}
		if err != nil {
			rsp.SetStatus(attStatus(err))
			log.WithError(err).Warn("Read request failed")
			p.notify(onboarding.ErrorMessage, "Access to device not allowed: read of %s failed: %v", ch.Name, err)
			return
		}

		if avail := rsp.Cap() - rsp.Len(); len(value) > avail {
			value = value[:avail]
		}
		if _, err := rsp.Write(value); err != nil {
			rsp.SetStatus(ble.ErrUnlikely)
			log.WithError(err).Warn("Failed to write read response")
			p.notify(onboarding.ErrorMessage, "Access to device not allowed: read of %s failed: %v", ch.Name, err)
			return
		}
		log.WithField("bytes", len(value)).Debug("Read request served")
	})
}

// readValue returns the full value of ch for a read at offset. A read at offset 0
// takes a fresh value and keeps it for remote; the Read Blob requests that follow
// are served from that copy so a long read never mixes two values.
func (p *Provider) readValue(ch onboarding.Characteristic, remote string, offset int) ([]byte, error) {
	key := remote + "/" + onboarding.NormalizeUUID(ch.UUID)
	if offset > 0 {
		if value, ok := p.longReads.Get(key); ok {
			return value, nil
		}
	}

	value, err := ch.Read(p.requestContext(), onboarding.ReadRequest{Remote: remote, Offset: offset})
	if err != nil {
		p.longReads.Del(key)
		return nil, err
	}
	p.longReads.Set(key, value)
	return value, nil
}

func (p *Provider) writeHandler(ch onboarding.Characteristic) ble.WriteHandler {
	return ble.WriteHandlerFunc(func(req ble.Request, rsp ble.ResponseWriter) {
		remote := remoteAddr(req)
		p.clients.RecordWrite(remote)

		data := append([]byte(nil), req.Data()...)
		err := ch.Write(p.requestContext(), onboarding.WriteRequest{Remote: remote, Offset: req.Offset(), Data: data})
		if err != nil {
			rsp.SetStatus(attStatus(err))
			p.logger.WithFields(logrus.Fields{
				"characteristic": ch.Name,
				"remote":         remote,
			}).WithError(err).Warn("Write request failed")
			p.notify(onboarding.ErrorMessage, "Access to device not allowed: write of %s failed: %v", ch.Name, err)
		}
	})
}

func (p *Provider) requestContext() context.Context {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.runCtx == nil {
		return context.Background()
	}
	return p.runCtx
}
