package pagelift

// Stylesheet is injected once per enhanced document under StylesheetKey.
// It defines the visual treatment and animations for notifications and
// field error annotations.
const Stylesheet = `
.pagelift-notification-container {
    position: fixed;
    top: 20px;
    right: 20px;
    z-index: 1000;
}

.pagelift-notification {
    padding: 12px 20px;
    margin-bottom: 10px;
    border-radius: 4px;
    color: #fff;
    font-size: 14px;
    box-shadow: 0 2px 8px rgba(0, 0, 0, 0.15);
    animation: pagelift-slide-in 0.3s ease-out;
}

.pagelift-notification-success { background-color: #28a745; }
.pagelift-notification-error   { background-color: #dc3545; }
.pagelift-notification-warning { background-color: #ffc107; color: #212529; }
.pagelift-notification-info    { background-color: #17a2b8; }

.pagelift-field-error {
    border-color: #dc3545 !important;
}

.pagelift-error-message {
    display: block;
    color: #dc3545;
    font-size: 12px;
    margin-top: 4px;
    animation: pagelift-fade-in 0.2s ease-in;
}

@keyframes pagelift-slide-in {
    from { transform: translateX(100%); opacity: 0; }
    to   { transform: translateX(0); opacity: 1; }
}

@keyframes pagelift-fade-in {
    from { opacity: 0; }
    to   { opacity: 1; }
}
`
